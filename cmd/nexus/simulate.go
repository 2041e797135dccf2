package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/nexus/sdk"
)

var samplePrompts = []string{
	"How do I reset my password?",
	"My invoice shows a double charge, my email is jane.doe@example.com",
	"'; DROP TABLE customers; --",
	"Can you summarize the last three tickets?",
}

var errModelTimeout = errors.New("model request timed out")

// runSimulate plays a support agent against a running server and prints the local summary.
func runSimulate(c *cli.Context) error {
	ctx := c.Context
	tracker := sdk.NewTracker(c.String("agent-id"),
		sdk.WithBaseURL(c.String("backend-url")),
		sdk.WithAPIKey(c.String("api-key")),
		sdk.WithTimeout(10*time.Second),
	)

	var reportErrs []error
	report := func(err error) {
		if err = withoutModelTimeouts(err); err != nil {
			slog.Warn("report failed", "error", err)
			reportErrs = append(reportErrs, err)
		}
	}

	for i, prompt := range samplePrompts {
		if analysis := tracker.AnalyzeRequestSecurity(prompt); !analysis.Safe {
			slog.Warn("rejected unsafe prompt", "threats", analysis.ThreatCount, "severity", analysis.Severity)
			report(tracker.LogSecurityEvent(ctx, "threat_detection",
				fmt.Sprintf("Rejected prompt with %d threats", analysis.ThreatCount),
				analysis.Severity,
				map[string]any{"prompt_index": i},
			))
			continue
		}

		privacy := tracker.CheckDataPrivacy(prompt)
		report(tracker.LogComplianceEvent(ctx, "pii_detection", privacy.ComplianceStatus,
			fmt.Sprintf("Detected %d types of PII", privacy.PIITypesCount), nil))

		report(tracker.TrackRequest(ctx, "chat_completion", func(ctx context.Context, requestID string) error {
			return fakeCompletion(ctx, tracker, i)
		}))
	}

	check := tracker.Health.PerformHealthCheck(ctx)
	report(tracker.LogHealth(ctx, sdk.HealthReport{
		Status:       check.Status,
		ResponseTime: check.AverageResponseTime,
		ErrorRate:    tracker.Metrics.ErrorRate(),
	}))

	out, err := json.MarshalIndent(tracker.Summary(ctx), "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))

	if len(reportErrs) > 0 {
		return fmt.Errorf("%d reports failed: %w", len(reportErrs), errors.Join(reportErrs...))
	}
	return nil
}

// withoutModelTimeouts drops simulated model failures from err and keeps the rest.
// TrackRequest joins the call error with the reporting error, so joins are walked member by member.
func withoutModelTimeouts(err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var rest []error
		for _, e := range joined.Unwrap() {
			if e = withoutModelTimeouts(e); e != nil {
				rest = append(rest, e)
			}
		}
		return errors.Join(rest...)
	}
	if errors.Is(err, errModelTimeout) {
		return nil
	}
	return err
}

// fakeCompletion stands in for a model call. Every third call times out.
func fakeCompletion(ctx context.Context, tracker *sdk.Tracker, i int) error {
	select {
	case <-time.After(time.Duration(50+rand.IntN(250)) * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	if i%3 == 2 {
		return errModelTimeout
	}

	input := 200 + rand.IntN(800)
	output := 100 + rand.IntN(400)
	cost := float64(input)*0.0000025 + float64(output)*0.00001
	return tracker.LogTokens(ctx, input, output, cost)
}
