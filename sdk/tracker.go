package sdk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/nexus/api"
)

const (
	logPath    = "/api/mock/log"
	healthPath = "/api/mock/health"
)

// Tracker collects telemetry for one agent and reports it to the server.
// Local collection always happens; a failed report is returned as an error.
type Tracker struct {
	agentID   string
	transport *transport

	Metrics  *MetricsCollector
	Health   *HealthMonitor
	Security *SecurityMonitor
}

// NewTracker creates a Tracker for agentID.
func NewTracker(agentID string, opts ...Option) *Tracker {
	o := buildOptions(opts)
	userAgent := fmt.Sprintf("nexus-sdk/%s (agent:%s)", Version, agentID)

	return &Tracker{
		agentID:   agentID,
		transport: newTransport(o, userAgent),
		Metrics:   NewMetricsCollector(),
		Health:    NewHealthMonitor(o.sampler),
		Security:  NewSecurityMonitor(),
	}
}

// AgentID returns the tracked agent's id.
func (t *Tracker) AgentID() string {
	return t.agentID
}

// TrackRequest runs fn and records its latency and outcome.
// If fn fails, the error is counted, reported, and returned joined with any reporting error.
// If fn succeeds, the metrics report error (if any) is returned.
func (t *Tracker) TrackRequest(ctx context.Context, operation string, fn func(ctx context.Context, requestID string) error) error {
	requestID := uuid.NewString()
	start := time.Now()

	err := fn(ctx, requestID)
	latency := float64(time.Since(start).Microseconds()) / 1000

	t.Health.LogResponseTime(latency)

	if err == nil {
		t.Metrics.UpdateRequest(latency, true)
		return t.LogRequest(ctx, RequestMetrics{LatencyMs: latency})
	}

	errorType := errorTypeName(err)
	t.Metrics.UpdateRequest(latency, false)
	t.Metrics.UpdateError(errorType)
	t.Health.LogError(errorType)

	reportErr := t.LogError(ctx, ErrorReport{
		ErrorType:    errorType,
		ErrorMessage: err.Error(),
		Context: map[string]any{
			"operation":  operation,
			"request_id": requestID,
			"latency":    latency,
		},
	})
	return errors.Join(err, reportErr)
}

// RequestMetrics is one request's usage. The zero value of Failed means the request succeeded.
type RequestMetrics struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	TotalCost    float64
	LatencyMs    float64
	Failed       bool
}

// LogRequest reports one request as a metrics log. TotalTokens defaults to input plus output.
func (t *Tracker) LogRequest(ctx context.Context, m RequestMetrics) error {
	total := m.TotalTokens
	if total == 0 {
		total = m.InputTokens + m.OutputTokens
	}
	successRate := 100.0
	if m.Failed {
		successRate = 0
	}

	return t.sendLog(ctx, "metrics", api.MetricsData{
		AgentID:        t.agentID,
		TotalTokens:    total,
		InputTokens:    m.InputTokens,
		OutputTokens:   m.OutputTokens,
		TotalCost:      m.TotalCost,
		TotalRequests:  1,
		AverageLatency: m.LatencyMs,
		SuccessRate:    successRate,
	})
}

// LogTokens records token usage locally and reports it.
func (t *Tracker) LogTokens(ctx context.Context, inputTokens, outputTokens int, cost float64) error {
	t.Metrics.UpdateTokens(inputTokens+outputTokens, cost)
	return t.LogRequest(ctx, RequestMetrics{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalCost:    cost,
	})
}

// ErrorReport describes an error to report. Severity defaults to medium.
type ErrorReport struct {
	ErrorType    string
	ErrorMessage string
	StackTrace   string
	Context      map[string]any
	Severity     Severity
}

// LogError reports an error log.
func (t *Tracker) LogError(ctx context.Context, r ErrorReport) error {
	severity := r.Severity
	if severity == "" {
		severity = SeverityMedium
	}
	var stack *string
	if r.StackTrace != "" {
		stack = &r.StackTrace
	}

	return t.sendLog(ctx, "error", api.ErrorData{
		AgentID:      t.agentID,
		ErrorType:    r.ErrorType,
		ErrorMessage: r.ErrorMessage,
		StackTrace:   stack,
		Context:      r.Context,
		Severity:     string(severity),
	})
}

// HealthReport is the caller-supplied part of a health report. Status defaults to healthy.
type HealthReport struct {
	Status       HealthStatus
	ResponseTime float64
	ErrorRate    float64
}

// LogHealth samples system metrics and reports a health report.
func (t *Tracker) LogHealth(ctx context.Context, r HealthReport) error {
	status := r.Status
	if status == "" {
		status = HealthStatusHealthy
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	req := api.HealthRequest{
		AgentID:      t.agentID,
		Status:       string(status),
		Uptime:       t.Health.Uptime().Hours(),
		ResponseTime: r.ResponseTime,
		ErrorRate:    r.ErrorRate,
	}
	if sys := t.Health.SystemMetrics(ctx); sys.Error == "" {
		req.CPUUsage = &sys.CPUPercent
		req.MemoryUsage = &sys.MemoryPercent
	}

	if err := t.transport.post(ctx, healthPath, req, nil); err != nil {
		return fmt.Errorf("report health: %w", err)
	}
	return nil
}

// LogSecurityEvent reports a security log. Severity defaults to medium.
func (t *Tracker) LogSecurityEvent(ctx context.Context, eventType, description string, severity Severity, metadata map[string]any) error {
	if severity == "" {
		severity = SeverityMedium
	}
	return t.sendLog(ctx, "security", api.SecurityData{
		AgentID:     t.agentID,
		EventType:   eventType,
		Description: description,
		Severity:    string(severity),
		Metadata:    metadata,
	})
}

// LogComplianceEvent reports a compliance log.
func (t *Tracker) LogComplianceEvent(ctx context.Context, complianceType string, status ComplianceStatus, details string, metadata map[string]any) error {
	return t.sendLog(ctx, "compliance", api.ComplianceData{
		AgentID:        t.agentID,
		ComplianceType: complianceType,
		Status:         string(status),
		Details:        details,
		Metadata:       metadata,
	})
}

// AnalyzeRequestSecurity scans user input for threats.
func (t *Tracker) AnalyzeRequestSecurity(input string) SecurityAnalysis {
	return t.Security.AnalyzeRequest("user_input", input)
}

// CheckDataPrivacy scans text for PII.
func (t *Tracker) CheckDataPrivacy(text string) PrivacyAnalysis {
	return t.Security.CheckDataPrivacy(text)
}

// TrackerSummary combines the three local monitors.
type TrackerSummary struct {
	Metrics  MetricsSummary  `json:"metrics"`
	Health   HealthSummary   `json:"health"`
	Security SecuritySummary `json:"security"`
}

// Summary returns local metrics, health and security summaries.
func (t *Tracker) Summary(ctx context.Context) TrackerSummary {
	return TrackerSummary{
		Metrics:  t.Metrics.Summary(),
		Health:   t.Health.Summary(ctx),
		Security: t.Security.Summary(),
	}
}

func (t *Tracker) sendLog(ctx context.Context, logType string, data any) error {
	body := struct {
		Type string `json:"type"`
		Data any    `json:"data"`
	}{Type: logType, Data: data}

	if err := t.transport.post(ctx, logPath, body, nil); err != nil {
		return fmt.Errorf("report %s log: %w", logType, err)
	}
	return nil
}

// errorTypeName names the dynamic type of err, e.g. "url.Error".
func errorTypeName(err error) string {
	return strings.TrimLeft(fmt.Sprintf("%T", err), "*")
}
