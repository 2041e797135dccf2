package domain

import "time"

// AgentStatus is the operational state shown for an agent.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusInactive AgentStatus = "inactive"
	AgentStatusError    AgentStatus = "error"
)

// IsValid checks if the status is one of the allowed values.
func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentStatusActive, AgentStatusInactive, AgentStatusError:
		return true
	default:
		return false
	}
}

// Agent represents a third-party AI service monitored by the dashboard.
type Agent struct {
	ID             string
	Name           string
	Description    string
	Type           string
	Provider       string
	Model          string
	Status         AgentStatus
	OrganizationID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
