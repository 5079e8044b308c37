package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the API routes with logging and metrics middleware.
func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/audits", handler.CreateAudit)
	mux.HandleFunc("GET /api/audits", handler.ListAudits)
	mux.HandleFunc("GET /api/audits/{id}", handler.GetAudit)
	mux.HandleFunc("DELETE /api/audits/{id}", handler.DeleteAudit)
	mux.HandleFunc("POST /api/audits/{id}/run", handler.RunAudit)
	mux.HandleFunc("GET /api/audits/{id}/report", handler.GetReport)
	mux.HandleFunc("GET /api/health", handler.Health)

	mux.Handle("GET /metrics", promhttp.Handler())

	return Logging(logger)(Metrics(mux))
}
