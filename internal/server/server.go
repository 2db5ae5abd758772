package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hongminglow/user-records/internal/config"
	"github.com/hongminglow/user-records/internal/http/handlers"
	"github.com/hongminglow/user-records/internal/http/users"
	"github.com/hongminglow/user-records/internal/logger"
	"github.com/hongminglow/user-records/internal/middleware"
	"github.com/hongminglow/user-records/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New builds the route table once and returns a ready server.
func New(cfg config.Config, store storage.UserStore, log *logger.Logger) (*Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins), metrics.Handler)

	handlers.NewHealthHandler(time.Now(), store).Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount(cfg.UsersMount, users.NewHandler(store, log, cfg.BcryptCost).Routes())

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           middleware.Logging(log, r),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Handler exposes the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
