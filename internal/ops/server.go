// Package ops is the minimal operations HTTP surface every long-running
// AMAS process carries: health and Prometheus metrics, nothing else.
// Business routing (accepting RawEvents over HTTP) is out of scope here —
// this carries the same middleware stack as a full API server
// (RequestID, Recoverer, Timeout) without any business routes mounted.
package ops

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the ops HTTP server. The zero value is not usable; construct
// with NewServer.
type Server struct {
	reg            *prometheus.Registry
	metricsEnabled bool
	healthy        func() bool
}

// NewServer wires a Server around reg. healthy, if non-nil, backs
// /healthz; a nil healthy always reports ok.
func NewServer(reg *prometheus.Registry, metricsEnabled bool, healthy func() bool) *Server {
	return &Server{reg: reg, metricsEnabled: metricsEnabled, healthy: healthy}
}

// Handler returns the chi router with the ops routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	ok := true
	if s.healthy != nil {
		ok = s.healthy()
	}
	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	if !ok {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
