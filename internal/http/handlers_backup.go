package http

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"budgebuddy/internal/log"
)

type exportResponse struct {
	Path string `json:"path"`
}

// handleExport writes a backup file into the configured export
// directory and returns its path.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	path, err := s.backup.Export(r.Context(), s.exportDir)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Backup exported", log.FieldPath, path)
	respondJSON(w, http.StatusCreated, exportResponse{Path: path})
}

type importRequest struct {
	File string `json:"file"`
}

// handleImport restores the ledger from a previously exported backup.
// Only files inside the export directory are accepted.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := filepath.Base(strings.TrimSpace(req.File))
	if name == "" || name == "." || name == string(filepath.Separator) {
		respondError(w, r, http.StatusUnprocessableEntity, "missing backup file name")
		return
	}
	path := filepath.Join(s.exportDir, name)

	if err := s.backup.Import(r.Context(), path); err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Backup imported", log.FieldPath, path)
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
