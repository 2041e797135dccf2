// Package seed loads fixture organizations and agents and inserts them into a store.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/service"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the decoded seed file.
type Fixtures struct {
	Organizations []OrganizationFixture `mapstructure:"organizations"`
	Agents        []AgentFixture        `mapstructure:"agents"`
}

// OrganizationFixture describes one seeded organization.
type OrganizationFixture struct {
	ID        string    `mapstructure:"id"`
	Name      string    `mapstructure:"name"`
	Plan      string    `mapstructure:"plan"`
	CreatedAt time.Time `mapstructure:"created_at"`
}

// AgentFixture describes one seeded agent.
type AgentFixture struct {
	ID             string    `mapstructure:"id"`
	Name           string    `mapstructure:"name"`
	Description    string    `mapstructure:"description"`
	Type           string    `mapstructure:"type"`
	Provider       string    `mapstructure:"provider"`
	Model          string    `mapstructure:"model"`
	Status         string    `mapstructure:"status"`
	OrganizationID string    `mapstructure:"organization_id"`
	CreatedAt      time.Time `mapstructure:"created_at"`
}

// Default returns the built-in fixtures.
func Default() (*Fixtures, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultFixtures)); err != nil {
		return nil, fmt.Errorf("read built-in fixtures: %w", err)
	}
	return decode(v)
}

// Load reads fixtures from a file. The format follows the extension (yaml, json, toml).
// An empty path returns the built-in fixtures.
func Load(path string) (*Fixtures, error) {
	if path == "" {
		return Default()
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Fixtures, error) {
	var f Fixtures
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&f, hook); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	for i, a := range f.Agents {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("agent fixture %d: id and name are required", i)
		}
		if a.Status != "" && !domain.AgentStatus(a.Status).IsValid() {
			return nil, fmt.Errorf("agent fixture %s: %w: %q", a.ID, domain.ErrInvalidAgentStatus, a.Status)
		}
	}
	for i, o := range f.Organizations {
		if o.ID == "" || o.Name == "" {
			return nil, fmt.Errorf("organization fixture %d: id and name are required", i)
		}
	}

	return &f, nil
}

// Store is the subset of service.Store that seeding writes to.
type Store interface {
	service.AgentStore
	service.OrganizationStore
}

// Apply inserts fixtures that are not already present. It is safe to run on every start.
func Apply(ctx context.Context, store Store, f *Fixtures) error {
	now := time.Now()
	inserted := 0

	for _, o := range f.Organizations {
		org := &domain.Organization{
			ID:        o.ID,
			Name:      o.Name,
			Plan:      o.Plan,
			CreatedAt: orNow(o.CreatedAt, now),
		}
		if org.Plan == "" {
			org.Plan = "free"
		}
		err := store.CreateOrganization(ctx, org)
		switch {
		case errors.Is(err, domain.ErrOrganizationAlreadyExists):
		case err != nil:
			return fmt.Errorf("seed organization %s: %w", o.ID, err)
		default:
			inserted++
		}
	}

	for _, a := range f.Agents {
		agent := &domain.Agent{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Type:        a.Type,
			Provider:    a.Provider,
			Model:       a.Model,
			Status:      domain.AgentStatus(a.Status),
			CreatedAt:   orNow(a.CreatedAt, now),
		}
		if agent.Status == "" {
			agent.Status = domain.AgentStatusActive
		}
		if a.OrganizationID != "" {
			orgID := a.OrganizationID
			agent.OrganizationID = &orgID
		}
		agent.UpdatedAt = agent.CreatedAt

		err := store.CreateAgent(ctx, agent)
		switch {
		case errors.Is(err, domain.ErrAgentAlreadyExists):
		case err != nil:
			return fmt.Errorf("seed agent %s: %w", a.ID, err)
		default:
			inserted++
		}
	}

	slog.Info("seed applied",
		"organizations", len(f.Organizations),
		"agents", len(f.Agents),
		"inserted", inserted,
	)
	return nil
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
