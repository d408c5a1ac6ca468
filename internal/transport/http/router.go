// Package httptransport wires the public HTTP surface. It stays thin:
// handlers delegate to domain services so transport concerns remain isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"formgate/internal/contact/handler"
	"formgate/internal/platform/middleware"
	respond "formgate/internal/transport/http/json"
	"formgate/pkg/requesttime"
)

// NewRouter wires all public endpoints with the shared middleware stack.
func NewRouter(contact *handler.Handler, logger *slog.Logger, maxBodyBytes int64) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.ClientIP)
	r.Use(requesttime.Middleware)
	r.Use(middleware.ContentTypeJSON)

	contact.Register(r)

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
