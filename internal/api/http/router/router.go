package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/levelkeeper/internal/api/http/middleware"
	"github.com/dtroode/levelkeeper/internal/logger"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Router builds the HTTP routes of the serve command.
type Router struct {
	store    Pinger
	gatherer prometheus.Gatherer
	logger   *logger.Logger
}

// New creates new router.
func New(store Pinger, gatherer prometheus.Gatherer, logger *logger.Logger) *Router {
	return &Router{
		store:    store,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Register returns the handler with all routes mounted.
func (r *Router) Register() http.Handler {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.NewLogging(r.logger).Handle)

	mux.Get("/healthz", r.health)
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))

	return mux
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), pingTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok"}
	code := http.StatusOK
	if err := r.store.Ping(ctx); err != nil {
		r.logger.Warn("health check failed", "error", err)
		resp = healthResponse{Status: "unavailable", Error: err.Error()}
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
