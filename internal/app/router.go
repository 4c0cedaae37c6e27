package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ozerpan/ercom-sync/internal/config"
	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/ercomsync"
	"github.com/ozerpan/ercom-sync/internal/handlers"
	"github.com/ozerpan/ercom-sync/internal/middleware"
	"github.com/ozerpan/ercom-sync/internal/reconcile"
	"github.com/ozerpan/ercom-sync/internal/store"
)

// NewRouter wires the document store and the legacy source into the
// handlers behind the request-id, logging, and body-limit middleware.
func NewRouter(cfg config.Config, st *store.Store, src *ercom.Client, logger *slog.Logger) http.Handler {
	engine := reconcile.NewEngine(st, src, cfg.Defaults)
	syncer := ercomsync.New(st, src, cfg)
	h := handlers.NewServer(cfg, st, engine, syncer, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.LimitBodyBytes(1<<20, []middleware.BodyLimitOverride{
		{PathPrefix: "/uploads", MaxBytes: cfg.UploadMaxFileBytes},
	}))

	api := chi.NewRouter()
	api.Get("/health", h.GetHealth)
	api.Post("/uploads", h.PostUploads)
	api.Post("/uploads/dst", h.PostUploadsDST)
	api.Post("/sync/ercom", h.PostSyncErcom)
	api.Post("/sync/tesdetay", h.PostSyncTesDetay)
	api.Get("/sync/runs/{runId}", h.GetSyncRun)

	r.Mount("/api", api)
	return r
}
