package dto

import (
	"github.com/mtlprog/nexus/api"
	"github.com/mtlprog/nexus/internal/domain"
)

// ToAgent converts domain.Agent to api.Agent.
func ToAgent(agent *domain.Agent) api.Agent {
	return api.Agent{
		ID:             agent.ID,
		Name:           agent.Name,
		Description:    agent.Description,
		Type:           agent.Type,
		Provider:       agent.Provider,
		Model:          agent.Model,
		Status:         string(agent.Status),
		OrganizationID: agent.OrganizationID,
		CreatedAt:      agent.CreatedAt,
		UpdatedAt:      agent.UpdatedAt,
	}
}

// ToAgentsResponse converts a list of agents.
func ToAgentsResponse(agents []*domain.Agent) api.AgentsResponse {
	resp := api.AgentsResponse{
		Agents: make([]api.Agent, len(agents)),
		Total:  len(agents),
	}
	for i, a := range agents {
		resp.Agents[i] = ToAgent(a)
	}
	return resp
}

// ToOrganizationsResponse converts a list of organizations.
func ToOrganizationsResponse(orgs []*domain.Organization) api.OrganizationsResponse {
	resp := api.OrganizationsResponse{
		Organizations: make([]api.Organization, len(orgs)),
	}
	for i, o := range orgs {
		resp.Organizations[i] = api.Organization{
			ID:        o.ID,
			Name:      o.Name,
			Plan:      o.Plan,
			CreatedAt: o.CreatedAt,
		}
	}
	return resp
}

// ToAgentMetricsResponse converts a generated series.
func ToAgentMetricsResponse(series *domain.AgentMetricsSeries, period string) api.AgentMetricsResponse {
	resp := api.AgentMetricsResponse{
		AgentID: series.AgentID,
		Period:  period,
		Metrics: make([]api.MetricsPoint, len(series.Metrics)),
		Health:  make([]api.HealthPoint, len(series.Health)),
		Errors:  make([]api.ErrorPoint, len(series.Errors)),
	}
	for i, m := range series.Metrics {
		resp.Metrics[i] = api.MetricsPoint{
			Timestamp:      m.Timestamp,
			TotalTokens:    m.TotalTokens,
			InputTokens:    m.InputTokens,
			OutputTokens:   m.OutputTokens,
			TotalCost:      m.TotalCost,
			TotalRequests:  m.TotalRequests,
			AverageLatency: m.AverageLatency,
			SuccessRate:    m.SuccessRate,
		}
	}
	for i, h := range series.Health {
		resp.Health[i] = api.HealthPoint{
			Timestamp:    h.Timestamp,
			Status:       string(h.Status),
			Uptime:       h.Uptime,
			ResponseTime: h.ResponseTime,
			ErrorRate:    h.ErrorRate,
			CPUUsage:     h.CPUUsage,
			MemoryUsage:  h.MemoryUsage,
		}
	}
	for i, e := range series.Errors {
		resp.Errors[i] = api.ErrorPoint{
			Timestamp:    e.Timestamp,
			ErrorType:    e.ErrorType,
			ErrorMessage: e.ErrorMessage,
			Severity:     e.Severity,
		}
	}
	return resp
}

// ToLogsResponse converts stored log entries.
func ToLogsResponse(entries []*domain.LogEntry) api.LogsResponse {
	resp := api.LogsResponse{
		Logs:  make([]api.LogEntry, len(entries)),
		Total: len(entries),
	}
	for i, e := range entries {
		resp.Logs[i] = api.LogEntry{
			ID:         e.ID,
			Type:       e.Type,
			AgentID:    e.AgentID,
			Data:       e.Data,
			ReceivedAt: e.ReceivedAt,
		}
	}
	return resp
}
