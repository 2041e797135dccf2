package domain

import "time"

// AgentMetrics is one hourly point of usage data for an agent.
type AgentMetrics struct {
	Timestamp      time.Time
	TotalTokens    int
	InputTokens    int
	OutputTokens   int
	TotalCost      float64
	TotalRequests  int
	AverageLatency float64
	SuccessRate    float64
}

// HealthPoint is one hourly point of health data for an agent.
type HealthPoint struct {
	Timestamp    time.Time
	Status       HealthStatus
	Uptime       float64
	ResponseTime float64
	ErrorRate    float64
	CPUUsage     float64
	MemoryUsage  float64
}

// ErrorPoint is a single error occurrence shown on the dashboard.
type ErrorPoint struct {
	Timestamp    time.Time
	ErrorType    string
	ErrorMessage string
	Severity     string
}

// AgentMetricsSeries bundles the arrays returned for one agent.
type AgentMetricsSeries struct {
	AgentID string
	Metrics []AgentMetrics
	Health  []HealthPoint
	Errors  []ErrorPoint
}
