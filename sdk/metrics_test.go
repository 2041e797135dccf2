package sdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector_Empty(t *testing.T) {
	c := NewMetricsCollector()

	assert.Equal(t, 100.0, c.SuccessRate())
	assert.Equal(t, 0.0, c.ErrorRate())
	assert.Equal(t, 0.0, c.AverageLatency())

	s := c.Summary()
	assert.Equal(t, 0.0, s.CostPerRequest)
	assert.Equal(t, 0.0, s.TokensPerRequest)
	assert.Empty(t, s.ErrorBreakdown)
}

func TestMetricsCollector_Summary(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 3, 14, 15, 10, 0, 0, time.Local))
	c := newMetricsCollector(clock.Now)

	c.UpdateTokens(1000, 0.012345)
	c.UpdateTokens(500, 0.005)
	c.UpdateRequest(100, true)
	c.UpdateRequest(200, true)
	c.UpdateRequest(300, false)
	c.UpdateError("TimeoutError")
	c.UpdateError("TimeoutError")
	c.UpdateError("RateLimitError")

	clock.Advance(30 * time.Minute)
	s := c.Summary()

	assert.Equal(t, 1800.0, s.UptimeSeconds)
	assert.Equal(t, 0.5, s.UptimeHours)
	assert.Equal(t, 1500, s.TotalTokens)
	assert.Equal(t, 0.0173, s.TotalCost)
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 2, s.SuccessfulRequests)
	assert.Equal(t, 1, s.FailedRequests)
	assert.Equal(t, 66.67, s.SuccessRate)
	assert.Equal(t, 33.33, s.ErrorRate)
	assert.Equal(t, 200.0, s.AverageLatency)
	assert.Equal(t, 0.0058, s.CostPerRequest)
	assert.Equal(t, 500.0, s.TokensPerRequest)
	assert.Equal(t, 6.0, s.RequestsPerHour)
	assert.Equal(t, 0.0347, s.CostPerHour)
	assert.Equal(t, map[string]int{"TimeoutError": 2, "RateLimitError": 1}, s.ErrorBreakdown)
}

func TestMetricsCollector_HourlyBreakdown(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 3, 14, 15, 59, 0, 0, time.Local))
	c := newMetricsCollector(clock.Now)

	c.UpdateRequest(100, true)
	c.UpdateRequest(300, true)
	c.UpdateTokens(10, 0.1)
	clock.Advance(2 * time.Minute)
	c.UpdateRequest(50, false)
	c.UpdateError("X")

	hours := c.HourlyBreakdown()
	require.Len(t, hours, 2)

	first := hours["2025-03-14-15"]
	assert.Equal(t, 2, first.Requests)
	assert.Equal(t, 200.0, first.AvgLatency)
	assert.Equal(t, 10, first.Tokens)
	assert.Equal(t, 0.1, first.Cost)

	second := hours["2025-03-14-16"]
	assert.Equal(t, 1, second.Requests)
	assert.Equal(t, 50.0, second.AvgLatency)
	assert.Equal(t, 1, second.Errors)
}

func TestMetricsCollector_Reset(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newMetricsCollector(clock.Now)
	c.UpdateRequest(10, false)
	c.UpdateError("E")
	clock.Advance(time.Hour)

	c.Reset()

	s := c.Summary()
	assert.Zero(t, s.TotalRequests)
	assert.Zero(t, s.UptimeSeconds)
	assert.Empty(t, s.ErrorBreakdown)
	assert.Empty(t, c.HourlyBreakdown())
}
