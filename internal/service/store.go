package service

import (
	"context"

	"github.com/mtlprog/nexus/internal/domain"
)

// AgentStore persists monitored agents.
type AgentStore interface {
	ListAgents(ctx context.Context) ([]*domain.Agent, error)
	GetAgent(ctx context.Context, agentID string) (*domain.Agent, error)
	CreateAgent(ctx context.Context, agent *domain.Agent) error
}

// OrganizationStore persists organizations.
type OrganizationStore interface {
	ListOrganizations(ctx context.Context) ([]*domain.Organization, error)
	CreateOrganization(ctx context.Context, org *domain.Organization) error
}

// LogFilter narrows ListLogs. Zero values mean no filtering; Limit 0 means the store default.
type LogFilter struct {
	Type    string
	AgentID string
	Limit   int
}

// TelemetryStore persists ingested log entries and health reports.
type TelemetryStore interface {
	AppendLog(ctx context.Context, entry *domain.LogEntry) error
	AppendHealth(ctx context.Context, report *domain.HealthReport) error
	ListLogs(ctx context.Context, filter LogFilter) ([]*domain.LogEntry, error)
	Counts(ctx context.Context) (*domain.TelemetryCounts, error)
}

// Store is everything the monitor service needs from a backend.
type Store interface {
	AgentStore
	OrganizationStore
	TelemetryStore
	Ping(ctx context.Context) error
}
