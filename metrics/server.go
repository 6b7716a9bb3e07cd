package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwantia/sizefs/log"
)

// Server serves Prometheus metrics on a dedicated address.
type Server struct {
	httpServer *http.Server
	log        *log.Logger
}

// NewServer creates a metrics server exposing /metrics on addr.
func NewServer(addr string, reg *prometheus.Registry, logger *log.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		log: logger.Named("metrics"),
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving metrics. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("Starting metrics server on '%s'", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("Metrics server failed: %v", err)
		return err
	}
	return nil
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
