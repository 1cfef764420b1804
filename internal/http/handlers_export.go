package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"accountbook/internal/export"
)

// handleExport renders into memory first so a failure can still produce a
// JSON error instead of a truncated download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	var buf bytes.Buffer
	if err := s.deps.Exports.Write(r.Context(), session(r), format, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	filename := fmt.Sprintf("accountbook-%s.%s", strings.ReplaceAll(s.today().String(), "/", "-"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
