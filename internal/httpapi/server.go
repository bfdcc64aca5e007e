// Package httpapi serves the read-only status endpoints in alert mode:
// liveness, the check registry, and Prometheus metrics. It never
// consumes check updates; the dispatcher stays the single consumer.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/checkmon/checkmon/internal/check"
)

type Server struct {
	Logger   *zap.Logger
	Registry check.Registry
}

func NewServer(logger *zap.Logger, registry check.Registry) *Server {
	return &Server{Logger: logger, Registry: registry}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/checks", s.handleListChecks)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type checkEntry struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	out := make([]checkEntry, 0, len(s.Registry))
	for id, info := range s.Registry {
		out = append(out, checkEntry{
			ID:          id,
			Name:        info.Name,
			Labels:      info.Labels,
			Annotations: info.Annotations,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Run serves addr until the listener fails. Callers run it in a
// goroutine and log the returned error.
func (s *Server) Run(addr string) error {
	s.Logger.Info("status_listen", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Router())
}
