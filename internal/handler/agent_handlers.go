package handler

import (
	"log/slog"
	"net/http"

	"github.com/mtlprog/nexus/api"
	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/handler/dto"
	"github.com/mtlprog/nexus/internal/service"
)

// handleListAgents returns every registered agent.
// @Summary List agents
// @Tags agents
// @Produce json
// @Success 200 {object} api.AgentsResponse
// @Router /api/mock/agents [get]
func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.monitor.ListAgents(r.Context())
	if err != nil {
		slog.Error("failed to list agents", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch agents")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentsResponse(agents))
}

// handleGetAgent returns a single agent.
// @Summary Get an agent
// @Tags agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} api.Agent
// @Failure 404 {object} api.ErrorResponse
// @Router /api/mock/agents/{id} [get]
func (h *Handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.monitor.GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgent(agent))
}

// handleCreateAgent registers an agent.
// @Summary Register an agent
// @Tags agents
// @Accept json
// @Produce json
// @Param request body api.CreateAgentRequest true "Agent"
// @Success 201 {object} api.Agent
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Security BearerAuth
// @Router /api/mock/agents [post]
func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAgentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	agent, err := h.monitor.RegisterAgent(r.Context(), service.RegisterAgentParams{
		ID:             req.ID,
		Name:           req.Name,
		Description:    req.Description,
		Type:           req.Type,
		Provider:       req.Provider,
		Model:          req.Model,
		Status:         domain.AgentStatus(req.Status),
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAgent(agent))
}

// handleAgentMetrics returns hourly metrics, health and error arrays for an agent.
// @Summary Agent metrics
// @Tags metrics
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} api.AgentMetricsResponse
// @Router /api/mock/agents/{id}/metrics [get]
func (h *Handler) handleAgentMetrics(w http.ResponseWriter, r *http.Request) {
	series, err := h.monitor.AgentMetrics(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentMetricsResponse(series, "24h"))
}

// handleListOrganizations returns every organization.
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Success 200 {object} api.OrganizationsResponse
// @Router /api/frontend/organizations [get]
func (h *Handler) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.monitor.ListOrganizations(r.Context())
	if err != nil {
		slog.Error("failed to list organizations", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch organizations")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToOrganizationsResponse(orgs))
}
