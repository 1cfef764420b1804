package http

import (
	"net/http"
	"strings"

	"accountbook/internal/core"
	applog "accountbook/internal/log"
	"accountbook/internal/stats"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	scope, err := ParseScope(query, s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	sel, err := ParseSelector(query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	series, err := s.deps.Stats.Series(r.Context(), session(r), scope, sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Statistics served",
		applog.FieldScopeMode, string(scope.Mode),
		applog.FieldSelector, string(sel),
		applog.FieldBuckets, len(series.Points))
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleQuickRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sel, err := ParseSelector(query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	preset := stats.Preset(strings.TrimSpace(query.Get("preset")))
	series, err := s.deps.Stats.QuickRange(r.Context(), session(r), preset, s.today(), sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// handleCategoryDetail lists one category's rows in a scope grouped by day.
// Net is not a row flow, so the detail of a net chart uses expenses.
func (s *Server) handleCategoryDetail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	scope, err := ParseScope(query, s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	sel, err := ParseSelector(query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	flow := core.Expense
	if sel == stats.SelectIncome {
		flow = core.Income
	}
	detail, err := s.deps.Transactions.CategoryDetail(r.Context(), session(r), scope, flow, r.PathValue("key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDetailJSON(detail, s.namer(r)))
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Stats.Budget(r.Context(), session(r), s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
