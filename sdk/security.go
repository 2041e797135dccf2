package sdk

import (
	"fmt"
	"maps"
	"regexp"
	"sync"
	"time"
)

// Severity grades security events, threats and PII.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// ComplianceStatus is the outcome of a compliance check.
type ComplianceStatus string

const (
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceWarning      ComplianceStatus = "warning"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
)

const (
	maxSecurityEvents = 1000
	maxPIIMatches     = 5
	scoreWindow       = 24 * time.Hour
	recentWindow      = time.Hour
	latestEvents      = 5
)

type threatRule struct {
	kind     string
	severity Severity
	patterns []*regexp.Regexp
}

type piiRule struct {
	kind     string
	severity Severity
	pattern  *regexp.Regexp
}

// Rules are checked in this order, so threats are reported in it too.
var threatRules = []threatRule{
	{"sql_injection", SeverityCritical, compileAll(
		`(?i)(union\s+select)`,
		`(?i)(drop\s+table)`,
		`(?i)(insert\s+into)`,
		`(?i)(delete\s+from)`,
		`(?i)(update\s+\w+\s+set)`,
		`(?i)('\s*or\s+'\d+'\s*=\s*'\d+)`,
		`(?i)('\s*or\s+\d+\s*=\s*\d+)`,
		`(?i)(--\s*$)`,
		`(?i)(/\*.*\*/)`,
	)},
	{"xss", SeverityHigh, compileAll(
		`(?i)(<script[^>]*>)`,
		`(?i)(<iframe[^>]*>)`,
		`(?i)(javascript:)`,
		`(?i)(on\w+\s*=)`,
		`(?i)(<img[^>]*onerror)`,
		`(?i)(<svg[^>]*onload)`,
		`(?i)(expression\s*\()`,
		`(?i)(vbscript:)`,
	)},
	{"command_injection", SeverityCritical, compileAll(
		`(?i)(;\s*rm\s+-rf)`,
		`(?i)(;\s*cat\s+/etc/passwd)`,
		`(?i)(;\s*wget\s+)`,
		`(?i)(;\s*curl\s+)`,
		`(?i)(\|\s*nc\s+)`,
		`(?i)(\$\(.*\))`,
		"(?i)(`.*`)",
		`(?i)(;\s*exec\s+)`,
	)},
	{"path_traversal", SeverityHigh, compileAll(
		`(\.\./){2,}`,
		`(\.\.\\){2,}`,
		`(?i)(file://)`,
		`(?i)(/etc/passwd)`,
		`(?i)(/windows/system32)`,
		`(?i)(\.\.%2f)`,
		`(?i)(\.\.%5c)`,
	)},
}

var piiRules = []piiRule{
	{"email", SeverityMedium, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
	{"phone", SeverityMedium, regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{"ssn", SeverityCritical, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"credit_card", SeverityCritical, regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`)},
	{"ip_address", SeverityLow, regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
	{"url", SeverityLow, regexp.MustCompile(`https?://(?:[-\w.])+(?:[:\d]+)?(?:/(?:[\w/_.])*)?(?:\?(?:[\w&=%.])*)?(?:#(?:\w)*)?`)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Threat is one matched threat pattern.
type Threat struct {
	Type     string   `json:"type"`
	Pattern  string   `json:"pattern"`
	Severity Severity `json:"severity"`
}

// SecurityAnalysis is the result of scanning input for threats.
type SecurityAnalysis struct {
	Threats        []Threat  `json:"threats_detected"`
	ThreatCount    int       `json:"threat_count"`
	Severity       Severity  `json:"severity"`
	Safe           bool      `json:"safe"`
	AnalysisTimeMs float64   `json:"analysis_time_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

// PIIMatch reports one kind of PII found in text.
type PIIMatch struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Matches  []string `json:"matches"`
	Severity Severity `json:"severity"`
}

// PrivacyAnalysis is the result of scanning text for PII.
type PrivacyAnalysis struct {
	PII               []PIIMatch       `json:"pii_detected"`
	PIITypesCount     int              `json:"pii_types_count"`
	TotalPIIInstances int              `json:"total_pii_instances"`
	ComplianceStatus  ComplianceStatus `json:"compliance_status"`
	Severity          Severity         `json:"severity"`
	PrivacySafe       bool             `json:"privacy_safe"`
	AnalysisTimeMs    float64          `json:"analysis_time_ms"`
	Timestamp         time.Time        `json:"timestamp"`
}

// SecurityEvent is a locally recorded security event.
type SecurityEvent struct {
	ID          int            `json:"id"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description"`
	Severity    Severity       `json:"severity"`
	Metadata    map[string]any `json:"metadata"`
	Timestamp   time.Time      `json:"timestamp"`
}

// ComplianceEvent is a locally recorded compliance check.
type ComplianceEvent struct {
	ID             int              `json:"id"`
	ComplianceType string           `json:"compliance_type"`
	Status         ComplianceStatus `json:"status"`
	Details        string           `json:"details"`
	Metadata       map[string]any   `json:"metadata"`
	Timestamp      time.Time        `json:"timestamp"`
}

// SecuritySummary aggregates recorded events and scores.
type SecuritySummary struct {
	TotalSecurityEvents   int               `json:"total_security_events"`
	RecentEventsCount     int               `json:"recent_events_count"`
	EventTypes            map[string]int    `json:"event_types"`
	SeverityDistribution  map[Severity]int  `json:"severity_distribution"`
	TotalComplianceLogs   int               `json:"total_compliance_logs"`
	RecentComplianceCount int               `json:"recent_compliance_count"`
	LatestSecurityEvents  []SecurityEvent   `json:"latest_security_events"`
	LatestComplianceLogs  []ComplianceEvent `json:"latest_compliance_logs"`
	SecurityScore         float64           `json:"security_score"`
	ComplianceScore       float64           `json:"compliance_score"`
}

// SecurityMonitor detects threats and PII and keeps the latest 1000 security and compliance events.
// It is safe for concurrent use.
type SecurityMonitor struct {
	mu  sync.Mutex
	now func() time.Time

	events           []SecurityEvent
	compliance       []ComplianceEvent
	nextEventID      int
	nextComplianceID int
	eventCounts      map[string]int
	severityCounts   map[Severity]int
}

// NewSecurityMonitor creates an empty monitor.
func NewSecurityMonitor() *SecurityMonitor {
	return newSecurityMonitor(time.Now)
}

func newSecurityMonitor(now func() time.Time) *SecurityMonitor {
	return &SecurityMonitor{
		now:            now,
		eventCounts:    make(map[string]int),
		severityCounts: make(map[Severity]int),
	}
}

// AnalyzeRequest scans content for injection, XSS and path traversal patterns.
// Detected threats are recorded as a threat_detection event.
func (m *SecurityMonitor) AnalyzeRequest(operation, content string) SecurityAnalysis {
	start := time.Now()
	severity := SeverityLow
	threats := []Threat{}

	for _, rule := range threatRules {
		for _, re := range rule.patterns {
			if !re.MatchString(content) {
				continue
			}
			threats = append(threats, Threat{Type: rule.kind, Pattern: re.String(), Severity: rule.severity})
			if rule.severity.rank() > severity.rank() {
				severity = rule.severity
			}
		}
	}

	if len(threats) > 0 {
		m.LogSecurityEvent("threat_detection",
			fmt.Sprintf("Detected %d security threats in %s", len(threats), operation),
			severity,
			map[string]any{
				"operation":      operation,
				"threats":        threats,
				"content_length": len(content),
			},
		)
	}

	return SecurityAnalysis{
		Threats:        threats,
		ThreatCount:    len(threats),
		Severity:       severity,
		Safe:           len(threats) == 0,
		AnalysisTimeMs: elapsedMs(start),
		Timestamp:      m.now(),
	}
}

// CheckDataPrivacy scans text for PII and records a pii_detection compliance event.
func (m *SecurityMonitor) CheckDataPrivacy(text string) PrivacyAnalysis {
	start := time.Now()
	found := []PIIMatch{}
	total := 0
	worst := SeverityLow

	for _, rule := range piiRules {
		matches := rule.pattern.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		found = append(found, PIIMatch{
			Type:     rule.kind,
			Count:    len(matches),
			Matches:  matches[:min(len(matches), maxPIIMatches)],
			Severity: rule.severity,
		})
		total += len(matches)
		if rule.severity.rank() > worst.rank() {
			worst = rule.severity
		}
	}

	status, severity := ComplianceCompliant, SeverityLow
	switch {
	case worst.rank() >= SeverityHigh.rank():
		status, severity = ComplianceNonCompliant, SeverityHigh
	case len(found) > 0:
		status, severity = ComplianceWarning, SeverityMedium
	}

	types := make([]string, len(found))
	for i, p := range found {
		types[i] = p.Type
	}
	m.LogComplianceEvent("pii_detection", status,
		fmt.Sprintf("Detected %d types of PII in data", len(found)),
		map[string]any{
			"pii_types":       types,
			"total_pii_count": total,
			"text_length":     len(text),
		},
	)

	return PrivacyAnalysis{
		PII:               found,
		PIITypesCount:     len(found),
		TotalPIIInstances: total,
		ComplianceStatus:  status,
		Severity:          severity,
		PrivacySafe:       len(found) == 0,
		AnalysisTimeMs:    elapsedMs(start),
		Timestamp:         m.now(),
	}
}

// elapsedMs is the wall time since start in milliseconds, rounded to 2 places.
func elapsedMs(start time.Time) float64 {
	return roundTo(float64(time.Since(start))/float64(time.Millisecond), 2)
}

// LogSecurityEvent records a security event locally.
func (m *SecurityMonitor) LogSecurityEvent(eventType, description string, severity Severity, metadata map[string]any) SecurityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metadata == nil {
		metadata = map[string]any{}
	}
	m.nextEventID++
	event := SecurityEvent{
		ID:          m.nextEventID,
		EventType:   eventType,
		Description: description,
		Severity:    severity,
		Metadata:    metadata,
		Timestamp:   m.now(),
	}
	m.events = capTail(append(m.events, event), maxSecurityEvents)
	m.eventCounts[eventType]++
	m.severityCounts[severity]++
	return event
}

// LogComplianceEvent records a compliance check locally.
func (m *SecurityMonitor) LogComplianceEvent(complianceType string, status ComplianceStatus, details string, metadata map[string]any) ComplianceEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metadata == nil {
		metadata = map[string]any{}
	}
	m.nextComplianceID++
	event := ComplianceEvent{
		ID:             m.nextComplianceID,
		ComplianceType: complianceType,
		Status:         status,
		Details:        details,
		Metadata:       metadata,
		Timestamp:      m.now(),
	}
	m.compliance = capTail(append(m.compliance, event), maxSecurityEvents)
	return event
}

// SecurityScore is 100 minus 20, 10, 5 or 1 per critical, high, medium or low event in the last 24 hours, floored at 0.
func (m *SecurityMonitor) SecurityScore() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.securityScoreLocked()
}

// ComplianceScore weighs compliant checks at 100 and warnings at 50 over the last 24 hours.
func (m *SecurityMonitor) ComplianceScore() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.complianceScoreLocked()
}

// Summary aggregates recorded events.
func (m *SecurityMonitor) Summary() SecuritySummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-recentWindow)
	recentEvents := 0
	for _, e := range m.events {
		if e.Timestamp.After(cutoff) {
			recentEvents++
		}
	}
	recentCompliance := 0
	for _, c := range m.compliance {
		if c.Timestamp.After(cutoff) {
			recentCompliance++
		}
	}

	return SecuritySummary{
		TotalSecurityEvents:   len(m.events),
		RecentEventsCount:     recentEvents,
		EventTypes:            maps.Clone(m.eventCounts),
		SeverityDistribution:  maps.Clone(m.severityCounts),
		TotalComplianceLogs:   len(m.compliance),
		RecentComplianceCount: recentCompliance,
		LatestSecurityEvents:  latest(m.events, latestEvents),
		LatestComplianceLogs:  latest(m.compliance, latestEvents),
		SecurityScore:         m.securityScoreLocked(),
		ComplianceScore:       m.complianceScoreLocked(),
	}
}

func (m *SecurityMonitor) securityScoreLocked() float64 {
	cutoff := m.now().Add(-scoreWindow)
	deductions := 0
	for _, e := range m.events {
		if !e.Timestamp.After(cutoff) {
			continue
		}
		switch e.Severity {
		case SeverityCritical:
			deductions += 20
		case SeverityHigh:
			deductions += 10
		case SeverityMedium:
			deductions += 5
		case SeverityLow:
			deductions++
		}
	}
	return float64(max(0, 100-deductions))
}

func (m *SecurityMonitor) complianceScoreLocked() float64 {
	cutoff := m.now().Add(-scoreWindow)
	total, weighted := 0, 0
	for _, c := range m.compliance {
		if !c.Timestamp.After(cutoff) {
			continue
		}
		total++
		switch c.Status {
		case ComplianceCompliant:
			weighted += 100
		case ComplianceWarning:
			weighted += 50
		}
	}
	if total == 0 {
		return 100
	}
	return roundTo(float64(weighted)/float64(total), 1)
}

func capTail[T any](items []T, limit int) []T {
	if len(items) <= limit {
		return items
	}
	return append([]T(nil), items[len(items)-limit:]...)
}

func latest[T any](items []T, n int) []T {
	out := make([]T, 0, min(n, len(items)))
	return append(out, items[max(0, len(items)-n):]...)
}
