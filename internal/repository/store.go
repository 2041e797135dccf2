package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/service"
)

var _ service.Store = (*Store)(nil)

// Store is the PostgreSQL-backed service.Store.
type Store struct {
	pool          *pgxpool.Pool
	agents        *AgentRepository
	organizations *OrganizationRepository
	telemetry     *TelemetryRepository
}

// NewStore creates a Store from a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:          pool,
		agents:        NewAgentRepository(pool),
		organizations: NewOrganizationRepository(pool),
		telemetry:     NewTelemetryRepository(pool),
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	return s.agents.List(ctx)
}

func (s *Store) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	return s.agents.GetByID(ctx, agentID)
}

func (s *Store) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	return s.agents.Create(ctx, agent)
}

func (s *Store) ListOrganizations(ctx context.Context) ([]*domain.Organization, error) {
	return s.organizations.List(ctx)
}

func (s *Store) CreateOrganization(ctx context.Context, org *domain.Organization) error {
	return s.organizations.Create(ctx, org)
}

func (s *Store) AppendLog(ctx context.Context, entry *domain.LogEntry) error {
	return s.telemetry.AppendLog(ctx, entry)
}

func (s *Store) AppendHealth(ctx context.Context, report *domain.HealthReport) error {
	return s.telemetry.AppendHealth(ctx, report)
}

func (s *Store) ListLogs(ctx context.Context, filter service.LogFilter) ([]*domain.LogEntry, error) {
	return s.telemetry.ListLogs(ctx, filter)
}

// Counts aggregates row counts across all tables.
func (s *Store) Counts(ctx context.Context) (*domain.TelemetryCounts, error) {
	byType, err := s.telemetry.CountLogsByType(ctx)
	if err != nil {
		return nil, err
	}
	health, err := s.telemetry.CountHealth(ctx)
	if err != nil {
		return nil, err
	}
	agents, err := s.agents.Count(ctx)
	if err != nil {
		return nil, err
	}
	orgs, err := s.organizations.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.TelemetryCounts{
		LogsByType:    byType,
		HealthReports: health,
		Agents:        agents,
		Organizations: orgs,
	}, nil
}
