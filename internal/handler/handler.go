package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	_ "github.com/mtlprog/nexus/docs" // Register swagger spec
	"github.com/mtlprog/nexus/internal/handler/dto"
	"github.com/mtlprog/nexus/internal/middleware"
	"github.com/mtlprog/nexus/internal/service"
	"github.com/mtlprog/nexus/internal/static"
	httpSwagger "github.com/swaggo/http-swagger"
)

// maxBodyBytes limits ingest bodies.
const maxBodyBytes = 1 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	monitor        *service.MonitorService
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(monitor *service.MonitorService, authMiddleware *middleware.AuthMiddleware) *Handler {
	if authMiddleware == nil {
		authMiddleware = middleware.NewAuthMiddleware(nil)
	}
	return &Handler{
		monitor:        monitor,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /health", h.handleHealthz)

	// Landing page and integration guide
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /integration.md", h.handleIntegrationMd)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Dashboard reads
	mux.HandleFunc("GET /api/mock/agents", h.handleListAgents)
	mux.HandleFunc("GET /api/mock/agents/{id}", h.handleGetAgent)
	mux.HandleFunc("GET /api/mock/agents/{id}/metrics", h.handleAgentMetrics)
	mux.HandleFunc("GET /api/mock/logs", h.handleListLogs)
	mux.HandleFunc("GET /api/mock/stats", h.handleStats)
	mux.HandleFunc("GET /api/frontend/organizations", h.handleListOrganizations)

	// Agent writes, optionally authenticated
	mux.Handle("POST /api/mock/agents", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateAgent)))
	mux.Handle("POST /api/mock/log", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleIngestLog)))
	mux.Handle("POST /api/mock/health", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleIngestHealth)))
	mux.Handle("POST /api/agents/log", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleIngestLog)))
	mux.Handle("POST /api/agents/health", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleIngestHealth)))
}

// handleHealthz returns 200 OK if the store is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.Ping(r.Context()); err != nil {
		slog.Error("store health check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex serves the embedded landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IndexHTML))
}

// handleIntegrationMd serves the embedded SDK integration guide.
func (h *Handler) handleIntegrationMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IntegrationMd))
}

// Ping checks if the store is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.monitor.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// decodeBody decodes a size-limited JSON body into dst.
// Returns false if decoding failed (error already sent to client).
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds 1MB")
			return false
		}
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}
