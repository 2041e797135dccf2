package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexus/internal/repository/memory"
	"github.com/mtlprog/nexus/internal/seed"
)

func TestDefault(t *testing.T) {
	f, err := seed.Default()
	require.NoError(t, err)
	require.Len(t, f.Organizations, 1)
	require.Len(t, f.Agents, 2)
	assert.Equal(t, "org-acme", f.Agents[0].OrganizationID)
	assert.False(t, f.Organizations[0].CreatedAt.IsZero())
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	f, err := seed.Default()
	require.NoError(t, err)

	require.NoError(t, seed.Apply(ctx, store, f))
	require.NoError(t, seed.Apply(ctx, store, f))

	agents, err := store.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 2)

	orgs, err := store.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Len(t, orgs, 1)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	body := `{
  "organizations": [{"id": "org-1", "name": "One", "created_at": "2024-05-01T10:00:00Z"}],
  "agents": [{"id": "bot", "name": "Bot", "organization_id": "org-1"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	f, err := seed.Load(path)
	require.NoError(t, err)
	require.Len(t, f.Agents, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), f.Organizations[0].CreatedAt.UTC())

	store := memory.New(0)
	require.NoError(t, seed.Apply(context.Background(), store, f))
	orgs, err := store.ListOrganizations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "free", orgs[0].Plan)

	agent, err := store.GetAgent(context.Background(), "bot")
	require.NoError(t, err)
	assert.Equal(t, "active", string(agent.Status))
	require.NotNil(t, agent.OrganizationID)
	assert.Equal(t, "org-1", *agent.OrganizationID)
}

func TestLoad_RejectsInvalidFixtures(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.yaml")
	require.NoError(t, os.WriteFile(missing, []byte("agents:\n  - name: nameless\n"), 0o600))
	_, err := seed.Load(missing)
	assert.Error(t, err)

	badStatus := filepath.Join(dir, "status.yaml")
	require.NoError(t, os.WriteFile(badStatus, []byte("agents:\n  - id: a\n    name: A\n    status: sleeping\n"), 0o600))
	_, err = seed.Load(badStatus)
	assert.Error(t, err)

	_, err = seed.Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}
