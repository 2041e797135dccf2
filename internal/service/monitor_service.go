package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/nexus/internal/config"
	"github.com/mtlprog/nexus/internal/domain"
)

// maxRecordedErrors bounds how many ingested error logs replace generated ones.
const maxRecordedErrors = 10

// MonitorService coordinates agent listing, telemetry ingestion, and dashboard metrics.
type MonitorService struct {
	store     Store
	generator *Generator
	points    int
	now       func() time.Time
	startedAt time.Time
}

// Option configures a MonitorService.
type Option func(*MonitorService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *MonitorService) {
		s.now = now
	}
}

// WithMetricsPoints sets how many hourly points AgentMetrics returns.
func WithMetricsPoints(points int) Option {
	return func(s *MonitorService) {
		if points > 0 {
			s.points = points
		}
	}
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(store Store, generator *Generator, opts ...Option) *MonitorService {
	s := &MonitorService{
		store:     store,
		generator: generator,
		points:    config.DefaultMetricsPoints,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// Ping checks that the backing store is reachable.
func (s *MonitorService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ListAgents returns every registered agent.
func (s *MonitorService) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	return s.store.ListAgents(ctx)
}

// GetAgent returns a single agent.
func (s *MonitorService) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, domain.ErrEmptyAgentID
	}
	return s.store.GetAgent(ctx, agentID)
}

// ListOrganizations returns every organization.
func (s *MonitorService) ListOrganizations(ctx context.Context) ([]*domain.Organization, error) {
	return s.store.ListOrganizations(ctx)
}

// RegisterAgentParams holds the fields accepted when registering an agent.
type RegisterAgentParams struct {
	ID             string
	Name           string
	Description    string
	Type           string
	Provider       string
	Model          string
	Status         domain.AgentStatus
	OrganizationID *string
}

// RegisterAgent adds an agent to the list. A missing ID is generated; a missing status defaults to active.
func (s *MonitorService) RegisterAgent(ctx context.Context, params RegisterAgentParams) (*domain.Agent, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, domain.ErrEmptyAgentName
	}

	status := params.Status
	if status == "" {
		status = domain.AgentStatusActive
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAgentStatus, status)
	}

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := s.now()
	agent := &domain.Agent{
		ID:             id,
		Name:           params.Name,
		Description:    params.Description,
		Type:           params.Type,
		Provider:       params.Provider,
		Model:          params.Model,
		Status:         status,
		OrganizationID: params.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateAgent(ctx, agent); err != nil {
		return nil, err
	}

	slog.Info("agent registered", "agent_id", agent.ID, "name", agent.Name)
	return agent, nil
}

// AgentMetrics returns hourly metrics, health, and error arrays for an agent.
// Any agent ID is accepted; metrics are generated, and recorded error logs for the
// agent take the place of generated errors when present.
func (s *MonitorService) AgentMetrics(ctx context.Context, agentID string) (*domain.AgentMetricsSeries, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, domain.ErrEmptyAgentID
	}

	series := s.generator.Series(agentID, s.now(), s.points)

	recorded, err := s.store.ListLogs(ctx, LogFilter{
		Type:    domain.LogTypeError,
		AgentID: agentID,
		Limit:   maxRecordedErrors,
	})
	if err != nil {
		return nil, fmt.Errorf("list recorded errors for agent %s: %w", agentID, err)
	}
	if len(recorded) > 0 {
		series.Errors = make([]domain.ErrorPoint, 0, len(recorded))
		for _, entry := range recorded {
			series.Errors = append(series.Errors, errorPointFromLog(entry))
		}
	}

	return series, nil
}

// IngestLogParams holds a raw log body.
type IngestLogParams struct {
	Type string
	Data json.RawMessage
}

// IngestLog stores a log body under its type.
func (s *MonitorService) IngestLog(ctx context.Context, params IngestLogParams) (*domain.LogEntry, error) {
	logType := strings.TrimSpace(params.Type)
	if logType == "" {
		return nil, domain.ErrEmptyLogType
	}

	data, err := decodeObject(params.Data)
	if err != nil {
		return nil, err
	}

	entry := &domain.LogEntry{
		ID:         uuid.NewString(),
		Type:       logType,
		AgentID:    stringField(data, "agent_id"),
		Data:       data,
		ReceivedAt: s.now(),
	}

	if err := s.store.AppendLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("append %s log: %w", logType, err)
	}

	attrs := []any{"log_id", entry.ID, "type", entry.Type, "agent_id", entry.AgentID}
	switch logType {
	case domain.LogTypeError:
		attrs = append(attrs,
			"error_type", stringField(data, "error_type"),
			"severity", stringField(data, "severity"),
		)
		slog.Warn("agent error logged", attrs...)
	case domain.LogTypeSecurity:
		attrs = append(attrs,
			"event_type", stringField(data, "event_type"),
			"severity", stringField(data, "severity"),
		)
		slog.Warn("agent security event logged", attrs...)
	default:
		slog.Info("agent log received", attrs...)
	}

	return entry, nil
}

// IngestHealthParams holds a health body.
type IngestHealthParams struct {
	AgentID      string
	Status       domain.HealthStatus
	Uptime       float64
	ResponseTime float64
	ErrorRate    float64
	CPUUsage     *float64
	MemoryUsage  *float64
}

// IngestHealth stores a health report.
func (s *MonitorService) IngestHealth(ctx context.Context, params IngestHealthParams) (*domain.HealthReport, error) {
	if strings.TrimSpace(params.AgentID) == "" {
		return nil, domain.ErrEmptyAgentID
	}
	if !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q, expected healthy, warning or critical", domain.ErrInvalidHealthStatus, params.Status)
	}

	report := &domain.HealthReport{
		ID:           uuid.NewString(),
		AgentID:      params.AgentID,
		Status:       params.Status,
		Uptime:       params.Uptime,
		ResponseTime: params.ResponseTime,
		ErrorRate:    params.ErrorRate,
		CPUUsage:     params.CPUUsage,
		MemoryUsage:  params.MemoryUsage,
		ReceivedAt:   s.now(),
	}

	if err := s.store.AppendHealth(ctx, report); err != nil {
		return nil, fmt.Errorf("append health report: %w", err)
	}

	slog.Info("agent health received",
		"report_id", report.ID,
		"agent_id", report.AgentID,
		"status", report.Status,
	)

	return report, nil
}

// ListLogs returns stored log entries, newest first.
func (s *MonitorService) ListLogs(ctx context.Context, filter LogFilter) ([]*domain.LogEntry, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	return s.store.ListLogs(ctx, filter)
}

// StatsResult holds counts of stored telemetry.
type StatsResult struct {
	Counts *domain.TelemetryCounts
	Uptime time.Duration
}

// Stats returns counts of everything the store holds.
func (s *MonitorService) Stats(ctx context.Context) (*StatsResult, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count telemetry: %w", err)
	}
	return &StatsResult{
		Counts: counts,
		Uptime: s.now().Sub(s.startedAt),
	}, nil
}

// decodeObject parses raw as a JSON object. Absent or null data yields an empty object.
func decodeObject(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}
	if trimmed[0] != '{' {
		return nil, domain.ErrInvalidLogData
	}

	var data map[string]any
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLogData, err)
	}
	return data, nil
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func errorPointFromLog(entry *domain.LogEntry) domain.ErrorPoint {
	severity := stringField(entry.Data, "severity")
	if severity == "" {
		severity = "medium"
	}
	return domain.ErrorPoint{
		Timestamp:    entry.ReceivedAt,
		ErrorType:    stringField(entry.Data, "error_type"),
		ErrorMessage: stringField(entry.Data, "error_message"),
		Severity:     severity,
	}
}
