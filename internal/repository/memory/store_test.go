package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/repository/memory"
	"github.com/mtlprog/nexus/internal/service"
)

func logEntry(id, typ, agent string, at time.Time) *domain.LogEntry {
	return &domain.LogEntry{ID: id, Type: typ, AgentID: agent, Data: map[string]any{}, ReceivedAt: at}
}

func TestStore_RetentionDropsOldest(t *testing.T) {
	ctx := context.Background()
	store := memory.New(2)
	base := time.Now()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.AppendLog(ctx, logEntry(fmt.Sprint(i), "metrics", "a", base.Add(time.Duration(i)*time.Second))))
		require.NoError(t, store.AppendHealth(ctx, &domain.HealthReport{ID: fmt.Sprint(i), AgentID: "a", Status: domain.HealthStatusHealthy}))
	}
	require.NoError(t, store.AppendLog(ctx, logEntry("e", "error", "a", base)))

	logs, err := store.ListLogs(ctx, service.LogFilter{Type: "metrics"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "3", logs[0].ID)
	assert.Equal(t, "2", logs[1].ID)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"metrics": 2, "error": 1}, counts.LogsByType)
	assert.Equal(t, 2, counts.HealthReports)
}

func TestStore_ZeroRetentionKeepsEverything(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	for i := 0; i < 150; i++ {
		require.NoError(t, store.AppendLog(ctx, logEntry(fmt.Sprint(i), "metrics", "a", time.Now())))
	}

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, counts.TotalLogs())

	logs, err := store.ListLogs(ctx, service.LogFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 100)
}

func TestStore_ListLogsFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.New(100)
	base := time.Now()
	require.NoError(t, store.AppendLog(ctx, logEntry("1", "metrics", "a", base)))
	require.NoError(t, store.AppendLog(ctx, logEntry("2", "error", "b", base.Add(time.Second))))
	require.NoError(t, store.AppendLog(ctx, logEntry("3", "error", "a", base.Add(2*time.Second))))

	logs, err := store.ListLogs(ctx, service.LogFilter{AgentID: "a"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "3", logs[0].ID)
	assert.Equal(t, "1", logs[1].ID)

	logs, err = store.ListLogs(ctx, service.LogFilter{Type: "error", Limit: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "3", logs[0].ID)

	logs, err = store.ListLogs(ctx, service.LogFilter{Type: "compliance"})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestStore_AgentsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	agent := &domain.Agent{ID: "a", Name: "original", Status: domain.AgentStatusActive}
	require.NoError(t, store.CreateAgent(ctx, agent))

	agent.Name = "mutated"
	got, err := store.GetAgent(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Name)

	got.Name = "changed again"
	list, err := store.ListAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", list[0].Name)

	assert.ErrorIs(t, store.CreateAgent(ctx, &domain.Agent{ID: "a"}), domain.ErrAgentAlreadyExists)
	_, err = store.GetAgent(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)
}

func TestStore_Organizations(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	require.NoError(t, store.CreateOrganization(ctx, &domain.Organization{ID: "o1", Name: "One"}))
	require.NoError(t, store.CreateOrganization(ctx, &domain.Organization{ID: "o2", Name: "Two"}))
	assert.ErrorIs(t, store.CreateOrganization(ctx, &domain.Organization{ID: "o1"}), domain.ErrOrganizationAlreadyExists)

	orgs, err := store.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "o1", orgs[0].ID)
}

func TestStore_ListAgentsOrderedByCreationThenID(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateAgent(ctx, &domain.Agent{ID: "b-late", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.CreateAgent(ctx, &domain.Agent{ID: "z-early", CreatedAt: base}))
	require.NoError(t, store.CreateAgent(ctx, &domain.Agent{ID: "a-early", CreatedAt: base}))

	agents, err := store.ListAgents(ctx)
	require.NoError(t, err)

	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"a-early", "z-early", "b-late"}, ids)
}

func TestStore_ListOrganizationsOrderedByCreationThenID(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateOrganization(ctx, &domain.Organization{ID: "org-late", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, store.CreateOrganization(ctx, &domain.Organization{ID: "org-b", CreatedAt: base}))
	require.NoError(t, store.CreateOrganization(ctx, &domain.Organization{ID: "org-a", CreatedAt: base}))

	orgs, err := store.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 3)
	assert.Equal(t, "org-a", orgs[0].ID)
	assert.Equal(t, "org-b", orgs[1].ID)
	assert.Equal(t, "org-late", orgs[2].ID)
}

func TestStore_ListLogsTiesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendLog(ctx, logEntry("first", "metrics", "a", at)))
	require.NoError(t, store.AppendLog(ctx, logEntry("second", "metrics", "a", at)))

	logs, err := store.ListLogs(ctx, service.LogFilter{Type: "metrics", Limit: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "second", logs[0].ID)
}
