// Package memory is a process-local store. Everything it holds is lost on restart.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/service"
)

const defaultListLimit = 100

var _ service.Store = (*Store)(nil)

// Store keeps agents, organizations, logs and health reports in memory.
// Logs are kept per type; each type and the health list hold at most retention entries.
type Store struct {
	mu            sync.RWMutex
	retention     int
	agents        []*domain.Agent
	organizations []*domain.Organization
	logs          map[string][]*domain.LogEntry
	health        []*domain.HealthReport
}

// New creates an empty Store. A retention of zero or less disables trimming.
func New(retention int) *Store {
	return &Store{
		retention: retention,
		logs:      make(map[string][]*domain.LogEntry),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// ListAgents returns agents ordered by creation time, then ID.
func (s *Store) ListAgents(context.Context) ([]*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Agent, len(s.agents))
	for i, a := range s.agents {
		cp := *a
		out[i] = &cp
	}
	slices.SortStableFunc(out, func(a, b *domain.Agent) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// GetAgent returns an agent by ID.
func (s *Store) GetAgent(_ context.Context, agentID string) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.agents {
		if a.ID == agentID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAgentNotFound
}

// CreateAgent appends an agent. IDs must be unique.
func (s *Store) CreateAgent(_ context.Context, agent *domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.agents {
		if a.ID == agent.ID {
			return domain.ErrAgentAlreadyExists
		}
	}
	cp := *agent
	s.agents = append(s.agents, &cp)
	return nil
}

// ListOrganizations returns organizations ordered by creation time, then ID.
func (s *Store) ListOrganizations(context.Context) ([]*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Organization, len(s.organizations))
	for i, o := range s.organizations {
		cp := *o
		out[i] = &cp
	}
	slices.SortStableFunc(out, func(a, b *domain.Organization) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// CreateOrganization appends an organization. IDs must be unique.
func (s *Store) CreateOrganization(_ context.Context, org *domain.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.organizations {
		if o.ID == org.ID {
			return domain.ErrOrganizationAlreadyExists
		}
	}
	cp := *org
	s.organizations = append(s.organizations, &cp)
	return nil
}

// AppendLog stores an entry under its type, dropping the oldest beyond retention.
func (s *Store) AppendLog(_ context.Context, entry *domain.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	s.logs[entry.Type] = trim(append(s.logs[entry.Type], &cp), s.retention)
	return nil
}

// AppendHealth stores a report, dropping the oldest beyond retention.
func (s *Store) AppendHealth(_ context.Context, report *domain.HealthReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *report
	s.health = trim(append(s.health, &cp), s.retention)
	return nil
}

// ListLogs returns matching entries, newest first.
func (s *Store) ListLogs(_ context.Context, filter service.LogFilter) ([]*domain.LogEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*domain.LogEntry
	if filter.Type != "" {
		candidates = slices.Clone(s.logs[filter.Type])
	} else {
		for _, entries := range s.logs {
			candidates = append(candidates, entries...)
		}
	}

	// Newest insert wins ties on ReceivedAt.
	slices.Reverse(candidates)
	slices.SortStableFunc(candidates, func(a, b *domain.LogEntry) int {
		return b.ReceivedAt.Compare(a.ReceivedAt)
	})

	out := make([]*domain.LogEntry, 0, min(limit, len(candidates)))
	for _, e := range candidates {
		if filter.AgentID != "" && e.AgentID != filter.AgentID {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Counts reports how many items of each kind are held.
func (s *Store) Counts(context.Context) (*domain.TelemetryCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := make(map[string]int, len(s.logs))
	for t, entries := range s.logs {
		byType[t] = len(entries)
	}

	return &domain.TelemetryCounts{
		LogsByType:    byType,
		HealthReports: len(s.health),
		Agents:        len(s.agents),
		Organizations: len(s.organizations),
	}, nil
}

func trim[T any](items []T, retention int) []T {
	if retention <= 0 || len(items) <= retention {
		return items
	}
	return slices.Clone(items[len(items)-retention:])
}
