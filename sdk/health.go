package sdk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// HealthStatus is the agent's self-assessed health.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusWarning  HealthStatus = "warning"
	HealthStatusCritical HealthStatus = "critical"
)

// IsValid checks if the status is one of the three known values.
func (s HealthStatus) IsValid() bool {
	switch s {
	case HealthStatusHealthy, HealthStatusWarning, HealthStatusCritical:
		return true
	}
	return false
}

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusCritical:
		return 2
	case HealthStatusWarning:
		return 1
	default:
		return 0
	}
}

// ErrInvalidStatus is returned by UpdateStatus for unknown statuses.
var ErrInvalidStatus = errors.New("invalid health status, must be one of: healthy, warning, critical")

const (
	maxResponseTimes = 100

	cpuThreshold      = 80.0
	memoryThreshold   = 85.0
	diskThreshold     = 90.0
	resourceCritical  = 95.0
	errorRateWarning  = 5.0
	errorRateCritical = 10.0
	latencyWarningMs  = 2000.0
	latencyCriticalMs = 5000.0
	bytesPerGB        = 1 << 30
	bytesPerMB        = 1 << 20
)

// SystemMetrics is a point-in-time sample of host and process resource usage.
// Error is set instead of the numeric fields when sampling failed.
type SystemMetrics struct {
	CPUPercent        float64   `json:"cpu_percent"`
	MemoryPercent     float64   `json:"memory_percent"`
	MemoryAvailableGB float64   `json:"memory_available_gb"`
	MemoryTotalGB     float64   `json:"memory_total_gb"`
	DiskPercent       float64   `json:"disk_percent"`
	DiskFreeGB        float64   `json:"disk_free_gb"`
	DiskTotalGB       float64   `json:"disk_total_gb"`
	NetworkBytesSent  uint64    `json:"network_bytes_sent"`
	NetworkBytesRecv  uint64    `json:"network_bytes_recv"`
	ProcessMemoryMB   float64   `json:"process_memory_mb"`
	ProcessCPUPercent float64   `json:"process_cpu_percent"`
	Error             string    `json:"error,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// SystemSampler reads resource usage.
type SystemSampler interface {
	Sample(ctx context.Context) (SystemMetrics, error)
}

// HostSampler samples the local host with gopsutil.
type HostSampler struct {
	// CPUInterval is how long CPU usage is measured over. Zero compares against the previous call.
	CPUInterval time.Duration
	// DiskPath is the mount point checked for disk usage.
	DiskPath string
}

// NewHostSampler returns a sampler measuring CPU over one second on the root filesystem.
func NewHostSampler() *HostSampler {
	return &HostSampler{CPUInterval: time.Second, DiskPath: "/"}
}

// Sample implements SystemSampler.
func (h *HostSampler) Sample(ctx context.Context) (SystemMetrics, error) {
	var m SystemMetrics

	cpuPercents, err := cpu.PercentWithContext(ctx, h.CPUInterval, false)
	if err != nil {
		return m, fmt.Errorf("cpu percent: %w", err)
	}
	if len(cpuPercents) > 0 {
		m.CPUPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return m, fmt.Errorf("virtual memory: %w", err)
	}
	m.MemoryPercent = vm.UsedPercent
	m.MemoryAvailableGB = roundTo(float64(vm.Available)/bytesPerGB, 2)
	m.MemoryTotalGB = roundTo(float64(vm.Total)/bytesPerGB, 2)

	path := h.DiskPath
	if path == "" {
		path = "/"
	}
	du, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return m, fmt.Errorf("disk usage %s: %w", path, err)
	}
	m.DiskPercent = du.UsedPercent
	m.DiskFreeGB = roundTo(float64(du.Free)/bytesPerGB, 2)
	m.DiskTotalGB = roundTo(float64(du.Total)/bytesPerGB, 2)

	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return m, fmt.Errorf("network counters: %w", err)
	}
	if len(counters) > 0 {
		m.NetworkBytesSent = counters[0].BytesSent
		m.NetworkBytesRecv = counters[0].BytesRecv
	}

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return m, fmt.Errorf("current process: %w", err)
	}
	memInfo, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return m, fmt.Errorf("process memory: %w", err)
	}
	m.ProcessMemoryMB = roundTo(float64(memInfo.RSS)/bytesPerMB, 2)
	if pct, err := proc.CPUPercentWithContext(ctx); err == nil {
		m.ProcessCPUPercent = pct
	}

	return m, nil
}

// HealthCheck is the result of PerformHealthCheck.
type HealthCheck struct {
	Status              HealthStatus  `json:"status"`
	Issues              []string      `json:"issues"`
	SystemMetrics       SystemMetrics `json:"system_metrics"`
	UptimeHours         float64       `json:"uptime_hours"`
	ErrorRate           float64       `json:"error_rate"`
	AverageResponseTime float64       `json:"average_response_time"`
	CheckedAt           time.Time     `json:"last_check"`
}

// HealthSummary is a rounded snapshot of a HealthMonitor.
type HealthSummary struct {
	Status              HealthStatus  `json:"status"`
	UptimeHours         float64       `json:"uptime_hours"`
	UptimeDays          float64       `json:"uptime_days"`
	ErrorCount          int           `json:"error_count"`
	TotalChecks         int           `json:"total_checks"`
	ErrorRate           float64       `json:"error_rate"`
	AverageResponseTime float64       `json:"average_response_time"`
	MaxResponseTime     float64       `json:"max_response_time"`
	LastHealthCheck     time.Time     `json:"last_health_check"`
	SystemMetrics       SystemMetrics `json:"system_metrics"`
}

// HealthMonitor tracks uptime, response times, error rate and host resources.
// It is safe for concurrent use.
type HealthMonitor struct {
	mu      sync.Mutex
	now     func() time.Time
	sampler SystemSampler

	startedAt       time.Time
	lastCheck       time.Time
	status          HealthStatus
	errorCount      int
	totalChecks     int
	responseTimes   []float64
	maxResponseTime float64
}

// NewHealthMonitor creates a monitor. A nil sampler uses NewHostSampler.
func NewHealthMonitor(sampler SystemSampler) *HealthMonitor {
	return newHealthMonitor(sampler, time.Now)
}

func newHealthMonitor(sampler SystemSampler, now func() time.Time) *HealthMonitor {
	if sampler == nil {
		sampler = NewHostSampler()
	}
	m := &HealthMonitor{now: now, sampler: sampler}
	m.resetLocked()
	return m
}

// Status returns the current status.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// UpdateStatus sets the status explicitly.
func (m *HealthMonitor) UpdateStatus(status HealthStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.lastCheck = m.now()
	return nil
}

// Uptime returns the time since creation or the last Reset.
func (m *HealthMonitor) Uptime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Sub(m.startedAt)
}

// LogResponseTime records a response time in milliseconds. Only the latest 100 are kept.
func (m *HealthMonitor) LogResponseTime(ms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responseTimes = append(m.responseTimes, ms)
	if len(m.responseTimes) > maxResponseTimes {
		m.responseTimes = m.responseTimes[len(m.responseTimes)-maxResponseTimes:]
	}
	m.maxResponseTime = max(m.maxResponseTime, ms)
}

// LogError counts an error and escalates the status when the error rate crosses 5% or 10%.
func (m *HealthMonitor) LogError(errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorCount++
	switch rate := m.errorRateLocked(); {
	case rate > errorRateCritical:
		m.status = HealthStatusCritical
	case rate > errorRateWarning:
		m.status = HealthStatusWarning
	}
}

// ErrorRate returns errors per health check as a percentage.
func (m *HealthMonitor) ErrorRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorRateLocked()
}

// AverageResponseTime returns the mean of the retained response times in milliseconds.
func (m *HealthMonitor) AverageResponseTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averageResponseTimeLocked()
}

// SystemMetrics samples host resources. A sampling failure is reported in the Error field.
func (m *HealthMonitor) SystemMetrics(ctx context.Context) SystemMetrics {
	metrics, err := m.sampler.Sample(ctx)
	if err != nil {
		metrics = SystemMetrics{Error: fmt.Sprintf("failed to get system metrics: %v", err)}
	}
	metrics.Timestamp = m.now()
	return metrics
}

// PerformHealthCheck samples resources, applies thresholds and updates the status.
// The status only escalates within one check: a later warning never lowers an earlier critical.
func (m *HealthMonitor) PerformHealthCheck(ctx context.Context) HealthCheck {
	metrics := m.SystemMetrics(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalChecks++
	m.lastCheck = m.now()

	status := HealthStatusHealthy
	var issues []string
	raise := func(to HealthStatus, issue string) {
		if to.rank() > status.rank() {
			status = to
		}
		issues = append(issues, issue)
	}

	if metrics.CPUPercent > cpuThreshold {
		raise(thresholdStatus(metrics.CPUPercent), fmt.Sprintf("High CPU usage: %.1f%%", metrics.CPUPercent))
	}
	if metrics.MemoryPercent > memoryThreshold {
		raise(thresholdStatus(metrics.MemoryPercent), fmt.Sprintf("High memory usage: %.1f%%", metrics.MemoryPercent))
	}
	if metrics.DiskPercent > diskThreshold {
		raise(HealthStatusWarning, fmt.Sprintf("High disk usage: %.1f%%", metrics.DiskPercent))
	}

	errorRate := m.errorRateLocked()
	switch {
	case errorRate > errorRateCritical:
		raise(HealthStatusCritical, fmt.Sprintf("High error rate: %.1f%%", errorRate))
	case errorRate > errorRateWarning:
		raise(HealthStatusWarning, fmt.Sprintf("Elevated error rate: %.1f%%", errorRate))
	}

	avg := m.averageResponseTimeLocked()
	switch {
	case avg > latencyCriticalMs:
		raise(HealthStatusCritical, fmt.Sprintf("High response time: %.0fms", avg))
	case avg > latencyWarningMs:
		raise(HealthStatusWarning, fmt.Sprintf("Elevated response time: %.0fms", avg))
	}

	m.status = status
	if issues == nil {
		issues = []string{}
	}

	return HealthCheck{
		Status:              status,
		Issues:              issues,
		SystemMetrics:       metrics,
		UptimeHours:         m.now().Sub(m.startedAt).Hours(),
		ErrorRate:           errorRate,
		AverageResponseTime: avg,
		CheckedAt:           m.lastCheck,
	}
}

// Summary returns the current state with a fresh resource sample.
func (m *HealthMonitor) Summary(ctx context.Context) HealthSummary {
	metrics := m.SystemMetrics(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	uptime := m.now().Sub(m.startedAt).Hours()
	return HealthSummary{
		Status:              m.status,
		UptimeHours:         roundTo(uptime, 2),
		UptimeDays:          roundTo(uptime/24, 2),
		ErrorCount:          m.errorCount,
		TotalChecks:         m.totalChecks,
		ErrorRate:           roundTo(m.errorRateLocked(), 2),
		AverageResponseTime: roundTo(m.averageResponseTimeLocked(), 2),
		MaxResponseTime:     roundTo(m.maxResponseTime, 2),
		LastHealthCheck:     m.lastCheck,
		SystemMetrics:       metrics,
	}
}

// IsHealthy reports whether the status is healthy.
func (m *HealthMonitor) IsHealthy() bool {
	return m.Status() == HealthStatusHealthy
}

// Reset clears counters and restarts the uptime clock.
func (m *HealthMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *HealthMonitor) resetLocked() {
	now := m.now()
	m.startedAt = now
	m.lastCheck = now
	m.status = HealthStatusHealthy
	m.errorCount = 0
	m.totalChecks = 0
	m.responseTimes = nil
	m.maxResponseTime = 0
}

func (m *HealthMonitor) errorRateLocked() float64 {
	if m.totalChecks == 0 {
		return 0
	}
	return float64(m.errorCount) / float64(m.totalChecks) * 100
}

func (m *HealthMonitor) averageResponseTimeLocked() float64 {
	if len(m.responseTimes) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.responseTimes {
		sum += v
	}
	return sum / float64(len(m.responseTimes))
}

func thresholdStatus(percent float64) HealthStatus {
	if percent > resourceCritical {
		return HealthStatusCritical
	}
	return HealthStatusWarning
}
