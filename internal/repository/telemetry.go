package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/nexus/internal/domain"
	"github.com/mtlprog/nexus/internal/service"
)

const defaultLogLimit = 100

// TelemetryRepository handles database operations for agent logs and health reports.
type TelemetryRepository struct {
	pool *pgxpool.Pool
}

// NewTelemetryRepository creates a new TelemetryRepository.
func NewTelemetryRepository(pool *pgxpool.Pool) *TelemetryRepository {
	return &TelemetryRepository{pool: pool}
}

// AppendLog inserts a log entry.
func (r *TelemetryRepository) AppendLog(ctx context.Context, entry *domain.LogEntry) error {
	query, args, err := psql.
		Insert("agent_logs").
		Columns("id", "type", "agent_id", "data", "received_at").
		Values(entry.ID, entry.Type, entry.AgentID, entry.Data, entry.ReceivedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert agent log: %w", err)
	}
	return nil
}

// AppendHealth inserts a health report.
func (r *TelemetryRepository) AppendHealth(ctx context.Context, report *domain.HealthReport) error {
	query, args, err := psql.
		Insert("health_reports").
		Columns("id", "agent_id", "status", "uptime", "response_time", "error_rate",
			"cpu_usage", "memory_usage", "received_at").
		Values(report.ID, report.AgentID, report.Status, report.Uptime, report.ResponseTime,
			report.ErrorRate, report.CPUUsage, report.MemoryUsage, report.ReceivedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert health report: %w", err)
	}
	return nil
}

// ListLogs returns matching log entries, newest first.
func (r *TelemetryRepository) ListLogs(ctx context.Context, filter service.LogFilter) ([]*domain.LogEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}

	qb := psql.
		Select("id", "type", "agent_id", "data", "received_at").
		From("agent_logs")
	if filter.Type != "" {
		qb = qb.Where(sq.Eq{"type": filter.Type})
	}
	if filter.AgentID != "" {
		qb = qb.Where(sq.Eq{"agent_id": filter.AgentID})
	}
	qb = qb.OrderBy("received_at DESC").Limit(uint64(limit))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListLogs query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agent logs: %w", err)
	}
	defer rows.Close()

	entries := []*domain.LogEntry{}
	for rows.Next() {
		var entry domain.LogEntry
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.AgentID, &entry.Data, &entry.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan agent log: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return entries, nil
}

// CountLogsByType returns the number of log entries per type.
func (r *TelemetryRepository) CountLogsByType(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type, COUNT(*)
		FROM agent_logs
		GROUP BY type
	`)
	if err != nil {
		return nil, fmt.Errorf("query logs by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var logType string
		var n int
		if err := rows.Scan(&logType, &n); err != nil {
			return nil, fmt.Errorf("scan log count: %w", err)
		}
		counts[logType] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log count rows: %w", err)
	}

	return counts, nil
}

// CountHealth returns the number of health reports.
func (r *TelemetryRepository) CountHealth(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM health_reports").Scan(&n); err != nil {
		return 0, fmt.Errorf("count health reports: %w", err)
	}
	return n, nil
}
