package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ozerpan/ercom-sync/internal/config"
	"github.com/ozerpan/ercom-sync/internal/ercomsync"
	"github.com/ozerpan/ercom-sync/internal/httpx"
	"github.com/ozerpan/ercom-sync/internal/reconcile"
	"github.com/ozerpan/ercom-sync/internal/store"
)

type Server struct {
	Config config.Config
	Store  *store.Store
	Engine *reconcile.Engine
	Syncer *ercomsync.Syncer
	Logger *slog.Logger
}

func NewServer(cfg config.Config, st *store.Store, engine *reconcile.Engine, syncer *ercomsync.Syncer, logger *slog.Logger) *Server {
	return &Server{Config: cfg, Store: st, Engine: engine, Syncer: syncer, Logger: logger}
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
