package http

import (
	"net/http"
	"strings"

	"accountbook/internal/core"
	"accountbook/internal/stats"
)

func (s *Server) namer(r *http.Request) func(string) string {
	if s.deps.Categories == nil {
		return core.BuiltInName
	}
	return s.deps.Categories.Names(r.Context(), session(r).Owner)
}

// transactionQuery builds a list filter from date, scope, flow and category
// query parameters. Without any date parameter every row matches.
func (s *Server) transactionQuery(r *http.Request) (core.TransactionQuery, error) {
	query := r.URL.Query()
	var q core.TransactionQuery

	if v := strings.TrimSpace(query.Get("flow")); v != "" {
		flow, err := core.ParseFlowType(v)
		if err != nil {
			return q, err
		}
		q.Flow = flow
	}
	q.Category = strings.TrimSpace(query.Get("category"))

	switch {
	case query.Get("date") != "":
		d, err := core.ParseDate(query.Get("date"))
		if err != nil {
			return q, err
		}
		q.Dates = core.RangeFilter(d, d)
	case query.Has("mode") || query.Has("year") || query.Has("month"):
		scope, err := ParseScope(query, s.today())
		if err != nil {
			return q, err
		}
		res, err := stats.Resolve(scope)
		if err != nil {
			return q, err
		}
		q.Dates = res.Filter
	}
	return q, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := s.transactionQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := s.deps.Transactions.List(r.Context(), session(r), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionList(rows, s.namer(r)))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.deps.Transactions.Create(r.Context(), session(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(t, s.namer(r)))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.deps.Transactions.Get(r.Context(), session(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(t, s.namer(r)))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.deps.Transactions.Update(r.Context(), session(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(t, s.namer(r)))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.deps.Transactions.Delete(r.Context(), session(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
