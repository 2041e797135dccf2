package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/nexus/api"
	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/handler/dto"
	"github.com/mtlprog/nexus/internal/service"
)

const maxLogsLimit = 1000

// handleIngestLog stores a log body under its type.
// @Summary Ingest a log body
// @Description Stores data under type (metrics, error, security, compliance or any other non-empty type)
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body api.LogRequest true "Log"
// @Success 201 {object} api.IngestResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse
// @Security BearerAuth
// @Router /api/mock/log [post]
func (h *Handler) handleIngestLog(w http.ResponseWriter, r *http.Request) {
	var req api.LogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.monitor.IngestLog(r.Context(), service.IngestLogParams{
		Type: req.Type,
		Data: req.Data,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, api.IngestResponse{
		Success: true,
		ID:      entry.ID,
		Message: entry.Type + " log recorded",
	})
}

// handleIngestHealth stores a health report.
// @Summary Ingest a health report
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body api.HealthRequest true "Health"
// @Success 201 {object} api.IngestResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse
// @Security BearerAuth
// @Router /api/mock/health [post]
func (h *Handler) handleIngestHealth(w http.ResponseWriter, r *http.Request) {
	var req api.HealthRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := h.monitor.IngestHealth(r.Context(), service.IngestHealthParams{
		AgentID:      req.AgentID,
		Status:       domain.HealthStatus(req.Status),
		Uptime:       req.Uptime,
		ResponseTime: req.ResponseTime,
		ErrorRate:    req.ErrorRate,
		CPUUsage:     req.CPUUsage,
		MemoryUsage:  req.MemoryUsage,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, api.IngestResponse{
		Success: true,
		ID:      report.ID,
		Message: "health report recorded",
	})
}

// handleListLogs returns ingested logs, newest first.
// @Summary List ingested logs
// @Tags ingest
// @Produce json
// @Param type query string false "Log type"
// @Param agent_id query string false "Agent ID"
// @Param limit query int false "Max entries (default 100, max 1000)"
// @Success 200 {object} api.LogsResponse
// @Router /api/mock/logs [get]
func (h *Handler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLogsLimit {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	entries, err := h.monitor.ListLogs(r.Context(), service.LogFilter{
		Type:    query.Get("type"),
		AgentID: query.Get("agent_id"),
		Limit:   limit,
	})
	if err != nil {
		slog.Error("failed to list logs", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch logs")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToLogsResponse(entries))
}

// handleStats returns counts of everything the store holds.
// @Summary Ingest statistics
// @Tags stats
// @Produce json
// @Success 200 {object} api.StatsResponse
// @Router /api/mock/stats [get]
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.monitor.Stats(r.Context())
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch stats")
		return
	}

	respondJSON(w, http.StatusOK, api.StatsResponse{
		Logs:          stats.Counts.LogsByType,
		TotalLogs:     stats.Counts.TotalLogs(),
		HealthReports: stats.Counts.HealthReports,
		Agents:        stats.Counts.Agents,
		Organizations: stats.Counts.Organizations,
		UptimeSeconds: stats.Uptime.Seconds(),
	})
}
