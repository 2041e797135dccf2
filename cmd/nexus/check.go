package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/nexus/internal/config"
	"github.com/mtlprog/nexus/sdk"
)

type checkStep struct {
	name string
	run  func(ctx context.Context) error
}

// runCheck verifies a running server: health, organizations, and a tracking round-trip.
func runCheck(c *cli.Context) error {
	backendURL := c.String("backend-url")
	agentID := c.String("agent-id")
	client := sdk.NewClient(
		sdk.WithBaseURL(backendURL),
		sdk.WithTimeout(config.DefaultRequestTimeout),
	)
	tracker := sdk.NewTracker(agentID,
		sdk.WithBaseURL(backendURL),
		sdk.WithAPIKey(c.String("api-key")),
		sdk.WithTimeout(config.DefaultRequestTimeout),
	)

	steps := []checkStep{
		{"health", client.Ping},
		{"organizations", func(ctx context.Context) error {
			orgs, err := client.Organizations(ctx)
			if err != nil {
				return err
			}
			slog.Info("organizations listed", "count", len(orgs))
			return nil
		}},
		{"tracking", func(ctx context.Context) error {
			return verifyTracking(ctx, client, tracker, agentID)
		}},
	}

	failed := 0
	for _, step := range steps {
		ctx, cancel := context.WithTimeout(c.Context, config.DefaultRequestTimeout)
		start := time.Now()
		err := step.run(ctx)
		cancel()

		if err != nil {
			failed++
			slog.Error("check failed", "step", step.name, "backend_url", backendURL, "error", err)
			continue
		}
		slog.Info("check passed", "step", step.name, "duration_ms", time.Since(start).Milliseconds())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed against %s", failed, len(steps), backendURL)
	}
	slog.Info("all checks passed", "backend_url", backendURL)
	return nil
}

// verifyTracking reports token usage and checks that a new metrics log for the agent shows up.
// Log IDs are assigned by the server, so the check holds under clock skew and at the retention cap.
func verifyTracking(ctx context.Context, client *sdk.Client, tracker *sdk.Tracker, agentID string) error {
	newest := func() (string, error) {
		logs, err := client.Logs(ctx, sdk.LogQuery{Type: "metrics", AgentID: agentID, Limit: 1})
		if err != nil || len(logs) == 0 {
			return "", err
		}
		return logs[0].ID, nil
	}

	before, err := newest()
	if err != nil {
		return fmt.Errorf("read metrics logs: %w", err)
	}
	if err := tracker.LogTokens(ctx, 10, 5, 0.0001); err != nil {
		return err
	}
	after, err := newest()
	if err != nil {
		return fmt.Errorf("read metrics logs: %w", err)
	}
	if after == "" || after == before {
		return fmt.Errorf("metrics log for %s not found after reporting", agentID)
	}
	return nil
}
