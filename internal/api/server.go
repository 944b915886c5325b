// Package api is the control surface: a small synchronous HTTP API for
// reading generator status and mutating rate-controller state.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/loadhound/trafficgen/internal/metrics"
	"github.com/loadhound/trafficgen/internal/rate"
)

const defaultMaxBodyBytes = 1 << 20

// Server serves the control API alongside the metrics exposition endpoint.
type Server struct {
	addr        string
	srv         *http.Server
	ctrl        *rate.Controller
	metrics     *metrics.Registry
	activeFlows func() int
	log         zerolog.Logger
}

// NewServer wires the handlers. activeFlows reports the number of live
// journeys for /status and the active_flows gauge.
func NewServer(addr string, ctrl *rate.Controller, reg *metrics.Registry, activeFlows func() int, log zerolog.Logger) *Server {
	s := &Server{
		addr:        addr,
		ctrl:        ctrl,
		metrics:     reg,
		activeFlows: activeFlows,
		log:         log,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the route table; exposed for httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.counted("/", s.handleRoot))
	mux.HandleFunc("/status", s.counted("/status", s.handleStatus))
	mux.HandleFunc("/update_interval", s.counted("/update_interval", s.handleUpdateInterval))
	mux.HandleFunc("/simulate_ddos", s.counted("/simulate_ddos", s.handleSimulateDDoS))
	mux.HandleFunc("/traffic/start", s.counted("/traffic/start", s.handleTraffic(true)))
	mux.HandleFunc("/traffic/resume", s.counted("/traffic/resume", s.handleTraffic(true)))
	mux.HandleFunc("/traffic/stop", s.counted("/traffic/stop", s.handleTraffic(false)))
	mux.HandleFunc("/traffic/pause", s.counted("/traffic/pause", s.handleTraffic(false)))
	mux.HandleFunc("/healthz", s.counted("/healthz", s.handleHealth))
	mux.Handle("/metrics", s.countedHandler("/metrics", s.metrics.Handler()))
	return mux
}

// counted wraps a handler so every endpoint hit lands in api_requests_total.
func (s *Server) counted(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.APIRequests.WithLabelValues(endpoint, r.Method).Inc()
		h(w, r)
	}
}

func (s *Server) countedHandler(endpoint string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.APIRequests.WithLabelValues(endpoint, r.Method).Inc()
		h.ServeHTTP(w, r)
	})
}

// Start serves until the listener is closed.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.log.Info().Str("addr", s.addr).Msg("control api listening")
	if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
