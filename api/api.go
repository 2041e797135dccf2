// Package api defines the JSON wire types exchanged between the Nexus server and its SDK.
package api

import (
	"encoding/json"
	"time"
)

// Agent is the public representation of a monitored agent.
type Agent struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Type           string    `json:"type"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	Status         string    `json:"status"`
	OrganizationID *string   `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AgentsResponse is returned by GET /api/mock/agents.
type AgentsResponse struct {
	Agents []Agent `json:"agents"`
	Total  int     `json:"total"`
}

// CreateAgentRequest is the body of POST /api/mock/agents.
type CreateAgentRequest struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Type           string  `json:"type,omitempty"`
	Provider       string  `json:"provider,omitempty"`
	Model          string  `json:"model,omitempty"`
	Status         string  `json:"status,omitempty"`
	OrganizationID *string `json:"organization_id,omitempty"`
}

// Organization is the public representation of a tenant grouping.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// OrganizationsResponse is returned by GET /api/frontend/organizations.
type OrganizationsResponse struct {
	Organizations []Organization `json:"organizations"`
}

// MetricsPoint is one hourly usage sample.
type MetricsPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	TotalTokens    int       `json:"total_tokens"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
	TotalCost      float64   `json:"total_cost"`
	TotalRequests  int       `json:"total_requests"`
	AverageLatency float64   `json:"average_latency"`
	SuccessRate    float64   `json:"success_rate"`
}

// HealthPoint is one hourly health sample.
type HealthPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Status       string    `json:"status"`
	Uptime       float64   `json:"uptime"`
	ResponseTime float64   `json:"response_time"`
	ErrorRate    float64   `json:"error_rate"`
	CPUUsage     float64   `json:"cpu_usage"`
	MemoryUsage  float64   `json:"memory_usage"`
}

// ErrorPoint is one error occurrence.
type ErrorPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	ErrorType    string    `json:"error_type"`
	ErrorMessage string    `json:"error_message"`
	Severity     string    `json:"severity"`
}

// AgentMetricsResponse is returned by GET /api/mock/agents/{id}/metrics.
type AgentMetricsResponse struct {
	AgentID string         `json:"agent_id"`
	Period  string         `json:"period"`
	Metrics []MetricsPoint `json:"metrics"`
	Health  []HealthPoint  `json:"health"`
	Errors  []ErrorPoint   `json:"errors"`
}

// LogRequest is the body of POST /api/mock/log. Data is kept as raw JSON so any type can be stored.
type LogRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MetricsData is the data payload of a "metrics" log.
type MetricsData struct {
	AgentID        string  `json:"agent_id"`
	TotalTokens    int     `json:"total_tokens"`
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalCost      float64 `json:"total_cost"`
	TotalRequests  int     `json:"total_requests"`
	AverageLatency float64 `json:"average_latency"`
	SuccessRate    float64 `json:"success_rate"`
}

// ErrorData is the data payload of an "error" log.
type ErrorData struct {
	AgentID      string         `json:"agent_id"`
	ErrorType    string         `json:"error_type"`
	ErrorMessage string         `json:"error_message"`
	StackTrace   *string        `json:"stack_trace"`
	Context      map[string]any `json:"context"`
	Severity     string         `json:"severity"`
}

// SecurityData is the data payload of a "security" log.
type SecurityData struct {
	AgentID     string         `json:"agent_id"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description"`
	Severity    string         `json:"severity"`
	Metadata    map[string]any `json:"metadata"`
}

// ComplianceData is the data payload of a "compliance" log.
type ComplianceData struct {
	AgentID        string         `json:"agent_id"`
	ComplianceType string         `json:"compliance_type"`
	Status         string         `json:"status"`
	Details        string         `json:"details"`
	Metadata       map[string]any `json:"metadata"`
}

// HealthRequest is the body of POST /api/mock/health.
type HealthRequest struct {
	AgentID      string   `json:"agent_id"`
	Status       string   `json:"status"`
	Uptime       float64  `json:"uptime"`
	ResponseTime float64  `json:"response_time"`
	ErrorRate    float64  `json:"error_rate"`
	CPUUsage     *float64 `json:"cpu_usage"`
	MemoryUsage  *float64 `json:"memory_usage"`
}

// IngestResponse acknowledges a log or health body.
type IngestResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// StatsResponse is returned by GET /api/mock/stats.
type StatsResponse struct {
	Logs          map[string]int `json:"logs"`
	TotalLogs     int            `json:"total_logs"`
	HealthReports int            `json:"health_reports"`
	Agents        int            `json:"agents"`
	Organizations int            `json:"organizations"`
	UptimeSeconds float64        `json:"uptime_seconds"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LogEntry is a stored log body as returned by GET /api/mock/logs.
type LogEntry struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	AgentID    string         `json:"agent_id"`
	Data       map[string]any `json:"data"`
	ReceivedAt time.Time      `json:"received_at"`
}

// LogsResponse is returned by GET /api/mock/logs.
type LogsResponse struct {
	Logs  []LogEntry `json:"logs"`
	Total int        `json:"total"`
}
