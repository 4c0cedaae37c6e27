package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ozerpan/ercom-sync/internal/httpx"
	"github.com/ozerpan/ercom-sync/internal/store"
)

type syncRunResponse struct {
	RunID      uuid.UUID  `json:"run_id"`
	Kind       string     `json:"kind"`
	FileName   string     `json:"file_name,omitempty"`
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	LogFile    string     `json:"log_file"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (s *Server) PostSyncErcom(w http.ResponseWriter, r *http.Request) {
	s.runPass(w, r, "ercom", "", func(ctx context.Context, log *slog.Logger) (string, error) {
		stats, err := s.Syncer.SyncErcom(ctx, log)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("synced %d customers and %d items", stats.Customers, stats.Items), nil
	})
}

func (s *Server) PostSyncTesDetay(w http.ResponseWriter, r *http.Request) {
	s.runPass(w, r, "tesdetay", "", func(ctx context.Context, log *slog.Logger) (string, error) {
		count, err := s.Syncer.SyncTesDetay(ctx, log)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("synced %d production records", count), nil
	})
}

func (s *Server) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "runId"))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_run_id", "runId must be a UUID", nil)
		return
	}

	run, err := s.Store.GetSyncRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound, "run_not_found", "Run was not found", nil)
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load run", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, syncRunResponse{
		RunID:      run.ID,
		Kind:       run.Kind,
		FileName:   run.FileName,
		Status:     run.Status,
		Message:    run.Message,
		LogFile:    run.LogFile,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	})
}
