package http

import (
	"net/http"

	"accountbook/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.Categories.List(r.Context(), session(r).Owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.deps.Categories.AddCustom(r.Context(), session(r).Owner, sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(c))
}

// handleCategoryName resolves a key to its display name. Unknown keys
// resolve to themselves.
func (s *Server) handleCategoryName(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	name := s.deps.Categories.DisplayName(r.Context(), session(r).Owner, key)
	c := categoryJSON{Key: key, Name: name, Custom: core.IsCustomKey(key)}
	if b, ok := core.LookupBuiltIn(key); ok {
		c.Flow = string(b.Flow)
	}
	writeJSON(w, http.StatusOK, c)
}
