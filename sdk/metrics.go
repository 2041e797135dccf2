package sdk

import (
	"maps"
	"math"
	"sync"
	"time"
)

// hourKeyLayout buckets hourly metrics in local time, e.g. "2025-03-14-15".
const hourKeyLayout = "2006-01-02-15"

// HourlyMetrics aggregates one local-time hour.
type HourlyMetrics struct {
	Tokens     int     `json:"tokens"`
	Cost       float64 `json:"cost"`
	Requests   int     `json:"requests"`
	AvgLatency float64 `json:"avg_latency"`
	Errors     int     `json:"errors"`
}

// MetricsSummary is a rounded snapshot of a MetricsCollector.
type MetricsSummary struct {
	UptimeSeconds      float64        `json:"uptime_seconds"`
	UptimeHours        float64        `json:"uptime_hours"`
	TotalTokens        int            `json:"total_tokens"`
	TotalCost          float64        `json:"total_cost"`
	TotalRequests      int            `json:"total_requests"`
	SuccessfulRequests int            `json:"successful_requests"`
	FailedRequests     int            `json:"failed_requests"`
	SuccessRate        float64        `json:"success_rate"`
	ErrorRate          float64        `json:"error_rate"`
	AverageLatency     float64        `json:"average_latency"`
	CostPerRequest     float64        `json:"cost_per_request"`
	TokensPerRequest   float64        `json:"tokens_per_request"`
	ErrorBreakdown     map[string]int `json:"error_breakdown"`
	RequestsPerHour    float64        `json:"requests_per_hour"`
	CostPerHour        float64        `json:"cost_per_hour"`
}

// MetricsCollector accumulates token, cost, latency and error counters locally.
// It is safe for concurrent use.
type MetricsCollector struct {
	mu  sync.Mutex
	now func() time.Time

	startedAt          time.Time
	totalTokens        int
	totalCost          float64
	totalRequests      int
	successfulRequests int
	failedRequests     int
	latencySum         float64
	latencyCount       int
	errors             map[string]int
	hourly             map[string]*HourlyMetrics
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return newMetricsCollector(time.Now)
}

func newMetricsCollector(now func() time.Time) *MetricsCollector {
	c := &MetricsCollector{now: now}
	c.resetLocked()
	return c
}

// UpdateTokens adds token usage and cost.
func (c *MetricsCollector) UpdateTokens(tokens int, cost float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalTokens += tokens
	c.totalCost += cost

	h := c.currentHourLocked()
	h.Tokens += tokens
	h.Cost += cost
}

// UpdateRequest records one request with its latency in milliseconds.
func (c *MetricsCollector) UpdateRequest(latencyMs float64, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	c.latencySum += latencyMs
	c.latencyCount++
	if success {
		c.successfulRequests++
	} else {
		c.failedRequests++
	}

	h := c.currentHourLocked()
	h.Requests++
	if h.Requests == 1 {
		h.AvgLatency = latencyMs
	} else {
		h.AvgLatency = (h.AvgLatency*float64(h.Requests-1) + latencyMs) / float64(h.Requests)
	}
}

// UpdateError counts one error of the given type.
func (c *MetricsCollector) UpdateError(errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors[errorType]++
	c.currentHourLocked().Errors++
}

// SuccessRate returns the percentage of successful requests, 100 when there were none.
func (c *MetricsCollector) SuccessRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successRateLocked()
}

// ErrorRate returns the percentage of failed requests, 0 when there were none.
func (c *MetricsCollector) ErrorRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorRateLocked()
}

// AverageLatency returns the mean request latency in milliseconds.
func (c *MetricsCollector) AverageLatency() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.averageLatencyLocked()
}

// Summary returns all counters and derived rates. Cost values are rounded to 4 places, the rest to 2.
func (c *MetricsCollector) Summary() MetricsSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	uptime := c.now().Sub(c.startedAt)
	s := MetricsSummary{
		UptimeSeconds:      uptime.Seconds(),
		UptimeHours:        uptime.Hours(),
		TotalTokens:        c.totalTokens,
		TotalCost:          roundTo(c.totalCost, 4),
		TotalRequests:      c.totalRequests,
		SuccessfulRequests: c.successfulRequests,
		FailedRequests:     c.failedRequests,
		SuccessRate:        roundTo(c.successRateLocked(), 2),
		ErrorRate:          roundTo(c.errorRateLocked(), 2),
		AverageLatency:     roundTo(c.averageLatencyLocked(), 2),
		ErrorBreakdown:     maps.Clone(c.errors),
	}
	if c.totalRequests > 0 {
		s.CostPerRequest = roundTo(c.totalCost/float64(c.totalRequests), 4)
		s.TokensPerRequest = roundTo(float64(c.totalTokens)/float64(c.totalRequests), 2)
	}
	if hours := uptime.Hours(); hours > 0 {
		s.RequestsPerHour = roundTo(float64(c.totalRequests)/hours, 2)
		s.CostPerHour = roundTo(c.totalCost/hours, 4)
	}
	return s
}

// HourlyBreakdown returns a copy of the per-hour buckets keyed "YYYY-MM-DD-HH".
func (c *MetricsCollector) HourlyBreakdown() map[string]HourlyMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]HourlyMetrics, len(c.hourly))
	for k, v := range c.hourly {
		out[k] = *v
	}
	return out
}

// Reset clears every counter and restarts the uptime clock.
func (c *MetricsCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *MetricsCollector) resetLocked() {
	c.startedAt = c.now()
	c.totalTokens = 0
	c.totalCost = 0
	c.totalRequests = 0
	c.successfulRequests = 0
	c.failedRequests = 0
	c.latencySum = 0
	c.latencyCount = 0
	c.errors = make(map[string]int)
	c.hourly = make(map[string]*HourlyMetrics)
}

func (c *MetricsCollector) currentHourLocked() *HourlyMetrics {
	key := c.now().Local().Format(hourKeyLayout)
	h, ok := c.hourly[key]
	if !ok {
		h = &HourlyMetrics{}
		c.hourly[key] = h
	}
	return h
}

func (c *MetricsCollector) successRateLocked() float64 {
	if c.totalRequests == 0 {
		return 100
	}
	return float64(c.successfulRequests) / float64(c.totalRequests) * 100
}

func (c *MetricsCollector) errorRateLocked() float64 {
	if c.totalRequests == 0 {
		return 0
	}
	return float64(c.failedRequests) / float64(c.totalRequests) * 100
}

func (c *MetricsCollector) averageLatencyLocked() float64 {
	if c.latencyCount == 0 {
		return 0
	}
	return c.latencySum / float64(c.latencyCount)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
