// Package server exposes the audit service over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/seoscan/seoscan/internal/audit"
	"github.com/seoscan/seoscan/internal/pagespeed"
	"github.com/seoscan/seoscan/internal/report"
	"github.com/seoscan/seoscan/internal/storage"
)

// Handler serves the audit API.
type Handler struct {
	service *audit.Service
	logger  *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(service *audit.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Status  string      `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}

type createAuditRequest struct {
	URL         string `json:"url"`
	DisplayName string `json:"displayName"`
	Tier        string `json:"tier"`
	UserID      string `json:"userId"`
}

// CreateAudit handles POST /api/audits.
func (h *Handler) CreateAudit(w http.ResponseWriter, r *http.Request) {
	var req createAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), audit.CreateParams{
		UserID:      req.UserID,
		WebsiteURL:  req.URL,
		DisplayName: req.DisplayName,
		Tier:        req.Tier,
	})
	if err != nil {
		var ve *audit.ValidationError
		if errors.As(err, &ve) {
			writeJSONError(w, http.StatusBadRequest, ve.Error())
			return
		}
		h.logger.Error("failed to create audit", slog.String("error", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "failed to create audit")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// RunAudit handles POST /api/audits/{id}/run.
func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := h.service.Run(r.Context(), id)
	if err != nil {
		var pe *audit.PreconditionError
		var provErr *pagespeed.ProviderError
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "audit not found")
		case errors.As(err, &pe):
			writeJSONError(w, http.StatusConflict, pe.Error())
		case errors.As(err, &provErr):
			writeJSONError(w, http.StatusBadGateway, provErr.Error())
		default:
			h.logger.Error("audit run failed",
				slog.String("audit_id", id),
				slog.String("error", err.Error()))
			writeJSONError(w, http.StatusInternalServerError, "audit run failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetAudit handles GET /api/audits/{id}.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "audit not found")
			return
		}
		h.logger.Error("failed to load audit", slog.String("error", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "failed to load audit")
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// GetReport handles GET /api/audits/{id}/report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rep, err := h.service.Report(r.Context(), id)
	if err != nil {
		var nc *report.ErrNotCompleted
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "audit not found")
		case errors.As(err, &nc):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(apiResponse{
				Success: false,
				Error:   "audit not yet completed",
				Status:  string(nc.Status),
			})
		default:
			h.logger.Error("failed to build report",
				slog.String("audit_id", id),
				slog.String("error", err.Error()))
			writeJSONError(w, http.StatusInternalServerError, "failed to build report")
		}
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// ListAudits handles GET /api/audits.
func (h *Handler) ListAudits(w http.ResponseWriter, r *http.Request) {
	filter := storage.ListFilter{
		UserID: r.URL.Query().Get("userId"),
		Status: storage.AuditStatus(r.URL.Query().Get("status")),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid status")
		return
	}

	audits, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list audits", slog.String("error", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "failed to list audits")
		return
	}

	writeJSON(w, http.StatusOK, audits)
}

// DeleteAudit handles DELETE /api/audits/{id}.
func (h *Handler) DeleteAudit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "audit not found")
			return
		}
		h.logger.Error("failed to delete audit", slog.String("error", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "failed to delete audit")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
