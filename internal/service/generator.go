package service

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/mtlprog/nexus/internal/domain"
)

var errorCatalog = []struct {
	errorType string
	message   string
	severity  string
}{
	{"TimeoutError", "Upstream model request timed out after 30s", "medium"},
	{"RateLimitError", "Provider rate limit exceeded, retry after 20s", "medium"},
	{"AuthenticationError", "Provider rejected API key", "high"},
	{"ValidationError", "Model returned malformed JSON", "low"},
	{"ConnectionError", "Connection reset by peer", "medium"},
	{"ContextLengthError", "Prompt exceeds model context window", "low"},
	{"ServiceUnavailable", "Provider returned 503", "critical"},
}

// Generator produces plausible hourly metrics for agents that have no real backend.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a Generator. The same seed always yields the same series.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomGenerator creates a Generator seeded from the runtime source.
func NewRandomGenerator() *Generator {
	return NewGenerator(rand.Uint64())
}

// Series generates points hourly points ending at the hour containing now.
func (g *Generator) Series(agentID string, now time.Time, points int) *domain.AgentMetricsSeries {
	g.mu.Lock()
	defer g.mu.Unlock()

	end := now.Truncate(time.Hour)
	series := &domain.AgentMetricsSeries{
		AgentID: agentID,
		Metrics: make([]domain.AgentMetrics, 0, points),
		Health:  make([]domain.HealthPoint, 0, points),
		Errors:  []domain.ErrorPoint{},
	}

	uptime := g.between(24, 720)
	for i := points - 1; i >= 0; i-- {
		ts := end.Add(-time.Duration(i) * time.Hour)

		requests := g.rnd.IntN(451) + 50
		input := requests * (g.rnd.IntN(301) + 100)
		output := requests * (g.rnd.IntN(401) + 150)
		latency := g.between(200, 1200)

		series.Metrics = append(series.Metrics, domain.AgentMetrics{
			Timestamp:      ts,
			TotalTokens:    input + output,
			InputTokens:    input,
			OutputTokens:   output,
			TotalCost:      round(float64(input+output)*g.between(0.000001, 0.00003), 4),
			TotalRequests:  requests,
			AverageLatency: round(latency, 2),
			SuccessRate:    round(g.between(90, 100), 2),
		})

		errorRate := g.between(0, 5)
		series.Health = append(series.Health, domain.HealthPoint{
			Timestamp:    ts,
			Status:       healthStatusFor(errorRate, latency),
			Uptime:       round(uptime+float64(points-1-i), 2),
			ResponseTime: round(latency, 2),
			ErrorRate:    round(errorRate, 2),
			CPUUsage:     round(g.between(10, 80), 2),
			MemoryUsage:  round(g.between(20, 85), 2),
		})
	}

	errorCount := g.rnd.IntN(6)
	for i := 0; i < errorCount; i++ {
		e := errorCatalog[g.rnd.IntN(len(errorCatalog))]
		offset := time.Duration(g.rnd.Int64N(int64(points) * int64(time.Hour)))
		series.Errors = append(series.Errors, domain.ErrorPoint{
			Timestamp:    now.Add(-offset),
			ErrorType:    e.errorType,
			ErrorMessage: fmt.Sprintf("%s (agent %s)", e.message, agentID),
			Severity:     e.severity,
		})
	}
	slices.SortFunc(series.Errors, func(a, b domain.ErrorPoint) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return series
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

// healthStatusFor applies the same thresholds the SDK health monitor uses.
func healthStatusFor(errorRate, responseTime float64) domain.HealthStatus {
	switch {
	case errorRate > 10 || responseTime > 5000:
		return domain.HealthStatusCritical
	case errorRate > 5 || responseTime > 2000:
		return domain.HealthStatusWarning
	default:
		return domain.HealthStatusHealthy
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
