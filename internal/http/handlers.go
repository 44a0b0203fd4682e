package http

import (
	"net/http"
	"strings"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/services"
)

// exportCacheKey builds the per-owner, per-query cache key. The owner id
// prefix is what write-path invalidation matches on.
func exportCacheKey(ownerID string, q services.ExportQuery) string {
	var b strings.Builder
	b.WriteString(ownerID)
	b.WriteString("|")
	b.WriteString(q.Resource)
	b.WriteString("|")
	if q.From != nil {
		b.WriteString(q.From.String())
	}
	b.WriteString("|")
	if q.To != nil {
		b.WriteString(q.To.String())
	}
	return b.String()
}

// invalidateExports drops every cached snapshot of one owner after a write.
func (s *Server) invalidateExports(ownerID string) {
	s.exportCache.DeletePrefix(ownerID + "|")
}

// handleExport serves GET /api/export?resource=&from=&to=&format=.
// format defaults to json; csv renders flat tables.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, "invalid format, want json or csv")
		return
	}

	q := services.ExportQuery{Resource: strings.TrimSpace(r.URL.Query().Get("resource"))}
	if v := strings.TrimSpace(r.URL.Query().Get("dateFrom")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
			return
		}
		q.From = &d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("dateTo")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
			return
		}
		q.To = &d
	}

	key := exportCacheKey(id.OwnerID, q)
	snap, cached := s.exportCache.Get(key)
	if !cached {
		var err error
		snap, err = s.svc.Export.Snapshot(r.Context(), id, q)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.exportCache.Set(key, snap)
	}

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
		if err := s.svc.Export.RenderCSV(w, snap); err != nil {
			s.logger.ErrorContext(r.Context(), "CSV rendering failed", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleBackup serves GET /api/backup: a sealed envelope of everything the
// caller owns.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	env, err := s.svc.Backup.Create(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="backup.json"`)
	writeJSON(w, http.StatusOK, env)
}

// restoreRequest is the POST /api/backup/restore body: the envelope plus
// the two gate flags.
type restoreRequest struct {
	services.BackupEnvelope
	Preview       bool `json:"preview,omitempty"`
	ConfirmDelete bool `json:"confirmDelete,omitempty"`
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req restoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.svc.Backup.Restore(r.Context(), id, req.BackupEnvelope, services.RestoreOptions{
		Preview:       req.Preview,
		ConfirmDelete: req.ConfirmDelete,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !result.Preview {
		s.invalidateExports(id.OwnerID)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req services.ImportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.svc.Import.Run(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !result.Preview {
		s.invalidateExports(id.OwnerID)
	}
	writeJSON(w, http.StatusOK, result)
}

// candidatesRequest is the POST /api/import/candidates body.
type candidatesRequest struct {
	Transacoes []core.TransactionInput `json:"transacoes"`
}

func (s *Server) handleImportCandidates(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req candidatesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reviews, err := s.svc.Import.PreviewCandidates(r.Context(), id, req.Transacoes)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": reviews})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.svc.Transactions.Create(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateExports(id.OwnerID)
	writeJSON(w, http.StatusCreated, map[string]any{"transactions": created})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account id")
		return
	}
	force := r.URL.Query().Get("force") == "true"

	outcome, err := s.svc.Accounts.Delete(r.Context(), id, accountID, force)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateExports(id.OwnerID)
	writeJSON(w, http.StatusOK, outcome)
}
