package domain

import "time"

// Well-known log types sent by the SDK. Any other non-empty type is stored as-is.
const (
	LogTypeMetrics    = "metrics"
	LogTypeError      = "error"
	LogTypeSecurity   = "security"
	LogTypeCompliance = "compliance"
)

// HealthStatus is the self-reported health of an agent.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusWarning  HealthStatus = "warning"
	HealthStatusCritical HealthStatus = "critical"
)

// IsValid checks if the status is one of the allowed values.
func (s HealthStatus) IsValid() bool {
	switch s {
	case HealthStatusHealthy, HealthStatusWarning, HealthStatusCritical:
		return true
	default:
		return false
	}
}

// LogEntry is a single body posted to the log endpoint.
type LogEntry struct {
	ID         string
	Type       string
	AgentID    string // empty when the body carries no agent_id
	Data       map[string]any
	ReceivedAt time.Time
}

// HealthReport is a single body posted to the health endpoint.
type HealthReport struct {
	ID           string
	AgentID      string
	Status       HealthStatus
	Uptime       float64
	ResponseTime float64
	ErrorRate    float64
	CPUUsage     *float64
	MemoryUsage  *float64
	ReceivedAt   time.Time
}

// TelemetryCounts summarizes what the store currently holds.
type TelemetryCounts struct {
	LogsByType    map[string]int
	HealthReports int
	Agents        int
	Organizations int
}

// TotalLogs sums log entries across all types.
func (c *TelemetryCounts) TotalLogs() int {
	total := 0
	for _, n := range c.LogsByType {
		total += n
	}
	return total
}
