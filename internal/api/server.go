package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/config"
	"github.com/tentaclefi/tentacle-locker/internal/db"
	"github.com/tentaclefi/tentacle-locker/internal/locker"
	"github.com/tentaclefi/tentacle-locker/internal/observability/tracing"
)

// CallerHeader carries the caller identity asserted by the fronting
// authentication proxy. The locker trusts it the way the source contract
// trusted msg.sender.
const CallerHeader = "X-Caller-ID"

type Server struct {
	cfg        *config.ServerConfig
	service    *locker.Service
	db         db.DbInterface
	httpServer *http.Server
}

func New(cfg *config.ServerConfig, service *locker.Service, database db.DbInterface) *Server {
	server := &Server{
		cfg:     cfg,
		service: service,
		db:      database,
	}

	router := chi.NewRouter()
	router.Use(tracing.Middleware)

	router.Get("/healthcheck", server.handleHealthcheck)
	router.Post("/v1/claim-types", server.handleConfigure)
	router.Post("/v1/claims", server.handleCreate)
	router.Delete("/v1/claims", server.handleDestroy)
	router.Get("/v1/positions/{positionID}/unlocked", server.handleIsUnlocked)
	router.Post("/v1/hooks/registration", server.handleRegistrationHook)
	router.Post("/v1/hooks/redemption", server.handleRedemptionHook)

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return server
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("Starting API server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("healthcheck db ping failed")
		http.Error(w, "db unreachable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
