package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/repository/memory"
	"github.com/mtlprog/nexus/internal/service"
)

type MonitorServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *memory.Store
	monitor *service.MonitorService
}

func (s *MonitorServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 14, 15, 42, 0, 0, time.UTC)
	s.store = memory.New(10)
	s.monitor = service.NewMonitorService(s.store, service.NewGenerator(7),
		service.WithClock(func() time.Time { return s.now }),
	)
}

func TestMonitorServiceSuite(t *testing.T) {
	suite.Run(t, new(MonitorServiceTestSuite))
}

func (s *MonitorServiceTestSuite) TestRegisterAgent_Defaults() {
	agent, err := s.monitor.RegisterAgent(s.ctx, service.RegisterAgentParams{Name: "Writer"})
	s.Require().NoError(err)
	s.NotEmpty(agent.ID)
	s.Equal(domain.AgentStatusActive, agent.Status)
	s.Equal(s.now, agent.CreatedAt)

	got, err := s.monitor.GetAgent(s.ctx, agent.ID)
	s.Require().NoError(err)
	s.Equal("Writer", got.Name)
}

func (s *MonitorServiceTestSuite) TestRegisterAgent_Validation() {
	_, err := s.monitor.RegisterAgent(s.ctx, service.RegisterAgentParams{Name: "  "})
	s.ErrorIs(err, domain.ErrEmptyAgentName)

	_, err = s.monitor.RegisterAgent(s.ctx, service.RegisterAgentParams{Name: "x", Status: "paused"})
	s.ErrorIs(err, domain.ErrInvalidAgentStatus)

	_, err = s.monitor.RegisterAgent(s.ctx, service.RegisterAgentParams{ID: "a", Name: "x"})
	s.Require().NoError(err)
	_, err = s.monitor.RegisterAgent(s.ctx, service.RegisterAgentParams{ID: "a", Name: "y"})
	s.ErrorIs(err, domain.ErrAgentAlreadyExists)
}

func (s *MonitorServiceTestSuite) TestGetAgent_Errors() {
	_, err := s.monitor.GetAgent(s.ctx, "")
	s.ErrorIs(err, domain.ErrEmptyAgentID)

	_, err = s.monitor.GetAgent(s.ctx, "ghost")
	s.ErrorIs(err, domain.ErrAgentNotFound)
}

func (s *MonitorServiceTestSuite) TestIngestLog_DataHandling() {
	entry, err := s.monitor.IngestLog(s.ctx, service.IngestLogParams{
		Type: "metrics",
		Data: json.RawMessage(`{"agent_id":"a1","total_tokens":10}`),
	})
	s.Require().NoError(err)
	s.Equal("a1", entry.AgentID)
	s.Equal(float64(10), entry.Data["total_tokens"])
	s.Equal(s.now, entry.ReceivedAt)

	entry, err = s.monitor.IngestLog(s.ctx, service.IngestLogParams{Type: "custom"})
	s.Require().NoError(err)
	s.Empty(entry.Data)
	s.NotNil(entry.Data)

	entry, err = s.monitor.IngestLog(s.ctx, service.IngestLogParams{Type: "custom", Data: json.RawMessage("null")})
	s.Require().NoError(err)
	s.NotNil(entry.Data)

	_, err = s.monitor.IngestLog(s.ctx, service.IngestLogParams{Type: " "})
	s.ErrorIs(err, domain.ErrEmptyLogType)

	_, err = s.monitor.IngestLog(s.ctx, service.IngestLogParams{Type: "metrics", Data: json.RawMessage(`"text"`)})
	s.ErrorIs(err, domain.ErrInvalidLogData)

	_, err = s.monitor.IngestLog(s.ctx, service.IngestLogParams{Type: "metrics", Data: json.RawMessage(`{"broken"`)})
	s.ErrorIs(err, domain.ErrInvalidLogData)
}

func (s *MonitorServiceTestSuite) TestIngestHealth_Validation() {
	report, err := s.monitor.IngestHealth(s.ctx, service.IngestHealthParams{AgentID: "a1", Status: domain.HealthStatusWarning})
	s.Require().NoError(err)
	s.NotEmpty(report.ID)

	_, err = s.monitor.IngestHealth(s.ctx, service.IngestHealthParams{Status: domain.HealthStatusHealthy})
	s.ErrorIs(err, domain.ErrEmptyAgentID)

	_, err = s.monitor.IngestHealth(s.ctx, service.IngestHealthParams{AgentID: "a1", Status: "ok"})
	s.ErrorIs(err, domain.ErrInvalidHealthStatus)
}

func (s *MonitorServiceTestSuite) TestStats_CountsAndUptime() {
	for _, t := range []string{"metrics", "metrics", "error"} {
		_, err := s.monitor.IngestLog(s.ctx, service.IngestLogParams{Type: t})
		s.Require().NoError(err)
	}
	_, err := s.monitor.IngestHealth(s.ctx, service.IngestHealthParams{AgentID: "a1", Status: domain.HealthStatusHealthy})
	s.Require().NoError(err)

	s.now = s.now.Add(90 * time.Second)
	stats, err := s.monitor.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]int{"metrics": 2, "error": 1}, stats.Counts.LogsByType)
	s.Equal(3, stats.Counts.TotalLogs())
	s.Equal(1, stats.Counts.HealthReports)
	s.Equal(90*time.Second, stats.Uptime)
}

func (s *MonitorServiceTestSuite) TestAgentMetrics_Generated() {
	series, err := s.monitor.AgentMetrics(s.ctx, "agent-x")
	s.Require().NoError(err)
	s.Require().Len(series.Metrics, 24)
	s.Len(series.Health, 24)

	last := series.Metrics[len(series.Metrics)-1]
	s.Equal(s.now.Truncate(time.Hour), last.Timestamp)
	s.Equal(s.now.Truncate(time.Hour).Add(-23*time.Hour), series.Metrics[0].Timestamp)
}

func (s *MonitorServiceTestSuite) TestAgentMetrics_RecordedErrorsReplaceGenerated() {
	_, err := s.monitor.IngestLog(s.ctx, service.IngestLogParams{
		Type: "error",
		Data: json.RawMessage(`{"agent_id":"agent-x","error_type":"ValueError","error_message":"bad input"}`),
	})
	s.Require().NoError(err)
	_, err = s.monitor.IngestLog(s.ctx, service.IngestLogParams{
		Type: "error",
		Data: json.RawMessage(`{"agent_id":"agent-y","error_type":"Other"}`),
	})
	s.Require().NoError(err)

	series, err := s.monitor.AgentMetrics(s.ctx, "agent-x")
	s.Require().NoError(err)
	s.Require().Len(series.Errors, 1)
	s.Equal("ValueError", series.Errors[0].ErrorType)
	s.Equal("medium", series.Errors[0].Severity)
}

func (s *MonitorServiceTestSuite) TestWithMetricsPoints() {
	monitor := service.NewMonitorService(s.store, service.NewGenerator(1), service.WithMetricsPoints(6))
	series, err := monitor.AgentMetrics(s.ctx, "a")
	s.Require().NoError(err)
	s.Len(series.Metrics, 6)
}

func TestGenerator_Ranges(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC)
	series := service.NewGenerator(99).Series("a1", now, 48)

	require.Len(t, series.Metrics, 48)
	for _, m := range series.Metrics {
		assert.Equal(t, m.InputTokens+m.OutputTokens, m.TotalTokens)
		assert.GreaterOrEqual(t, m.TotalRequests, 50)
		assert.LessOrEqual(t, m.TotalRequests, 500)
		assert.GreaterOrEqual(t, m.SuccessRate, 90.0)
		assert.LessOrEqual(t, m.SuccessRate, 100.0)
		assert.GreaterOrEqual(t, m.AverageLatency, 200.0)
		assert.LessOrEqual(t, m.AverageLatency, 1200.0)
	}
	for _, h := range series.Health {
		assert.True(t, h.Status.IsValid())
		assert.GreaterOrEqual(t, h.ErrorRate, 0.0)
		assert.LessOrEqual(t, h.ErrorRate, 5.0)
		assert.GreaterOrEqual(t, h.CPUUsage, 10.0)
		assert.LessOrEqual(t, h.CPUUsage, 80.0)
		assert.GreaterOrEqual(t, h.MemoryUsage, 20.0)
		assert.LessOrEqual(t, h.MemoryUsage, 85.0)
	}
	assert.LessOrEqual(t, len(series.Errors), 5)
	for i := 1; i < len(series.Errors); i++ {
		assert.False(t, series.Errors[i].Timestamp.After(series.Errors[i-1].Timestamp))
	}
}

func TestGenerator_DeterministicForSeed(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	a := service.NewGenerator(5).Series("a1", now, 24)
	b := service.NewGenerator(5).Series("a1", now, 24)
	assert.Equal(t, a, b)

	c := service.NewGenerator(6).Series("a1", now, 24)
	assert.NotEqual(t, a.Metrics, c.Metrics)
}
