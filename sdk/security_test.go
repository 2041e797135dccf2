package sdk

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threatTypes(a SecurityAnalysis) []string {
	var out []string
	for _, t := range a.Threats {
		out = append(out, t.Type)
	}
	return out
}

func TestAnalyzeRequest_DetectsThreats(t *testing.T) {
	tests := []struct {
		input    string
		threat   string
		severity Severity
	}{
		{"1 UNION SELECT password FROM users", "sql_injection", SeverityCritical},
		{"name' OR 1=1", "sql_injection", SeverityCritical},
		{"<script>alert(1)</script>", "xss", SeverityHigh},
		{"file.txt; rm -rf /", "command_injection", SeverityCritical},
		{"echo $(whoami)", "command_injection", SeverityCritical},
		{"../../../secret", "path_traversal", SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.threat+" "+tt.input, func(t *testing.T) {
			m := NewSecurityMonitor()
			a := m.AnalyzeRequest("user_input", tt.input)

			assert.False(t, a.Safe)
			assert.Contains(t, threatTypes(a), tt.threat)
			assert.Equal(t, tt.severity, a.Severity)
			assert.Equal(t, len(a.Threats), a.ThreatCount)
			assert.Equal(t, 1, m.Summary().TotalSecurityEvents)
		})
	}
}

func TestAnalyzeRequest_SafeInput(t *testing.T) {
	m := NewSecurityMonitor()
	a := m.AnalyzeRequest("user_input", "What is the capital of France?")

	assert.True(t, a.Safe)
	assert.Empty(t, a.Threats)
	assert.Equal(t, SeverityLow, a.Severity)
	assert.Zero(t, m.Summary().TotalSecurityEvents)
}

func TestCheckDataPrivacy(t *testing.T) {
	m := NewSecurityMonitor()

	p := m.CheckDataPrivacy("Contact jane@example.com or visit https://example.com/help")
	assert.Equal(t, ComplianceWarning, p.ComplianceStatus)
	assert.Equal(t, SeverityMedium, p.Severity)
	assert.False(t, p.PrivacySafe)
	require.Len(t, p.PII, 2)
	assert.Equal(t, "email", p.PII[0].Type)
	assert.Equal(t, "url", p.PII[1].Type)

	p = m.CheckDataPrivacy("SSN 123-45-6789")
	assert.Equal(t, ComplianceNonCompliant, p.ComplianceStatus)
	assert.Equal(t, SeverityHigh, p.Severity)

	p = m.CheckDataPrivacy("nothing to see here")
	assert.Equal(t, ComplianceCompliant, p.ComplianceStatus)
	assert.True(t, p.PrivacySafe)

	assert.Equal(t, 3, m.Summary().TotalComplianceLogs)
}

func TestCheckDataPrivacy_KeepsFirstFiveMatches(t *testing.T) {
	text := ""
	for i := 0; i < 8; i++ {
		text += fmt.Sprintf("user%d@example.com ", i)
	}

	p := NewSecurityMonitor().CheckDataPrivacy(text)
	require.Len(t, p.PII, 1)
	assert.Equal(t, 8, p.PII[0].Count)
	assert.Len(t, p.PII[0].Matches, 5)
	assert.Equal(t, "user0@example.com", p.PII[0].Matches[0])
	assert.Equal(t, 8, p.TotalPIIInstances)
}

func TestSecurityScore(t *testing.T) {
	clock := newFakeClock(time.Now())
	m := newSecurityMonitor(clock.Now)
	assert.Equal(t, 100.0, m.SecurityScore())

	m.LogSecurityEvent("a", "", SeverityCritical, nil)
	m.LogSecurityEvent("b", "", SeverityHigh, nil)
	m.LogSecurityEvent("c", "", SeverityMedium, nil)
	m.LogSecurityEvent("d", "", SeverityLow, nil)
	assert.Equal(t, 64.0, m.SecurityScore())

	for i := 0; i < 10; i++ {
		m.LogSecurityEvent("e", "", SeverityCritical, nil)
	}
	assert.Equal(t, 0.0, m.SecurityScore())

	clock.Advance(25 * time.Hour)
	assert.Equal(t, 100.0, m.SecurityScore())
}

func TestComplianceScore(t *testing.T) {
	clock := newFakeClock(time.Now())
	m := newSecurityMonitor(clock.Now)
	assert.Equal(t, 100.0, m.ComplianceScore())

	m.LogComplianceEvent("gdpr", ComplianceCompliant, "", nil)
	m.LogComplianceEvent("gdpr", ComplianceWarning, "", nil)
	m.LogComplianceEvent("gdpr", ComplianceNonCompliant, "", nil)
	assert.Equal(t, 50.0, m.ComplianceScore())

	clock.Advance(25 * time.Hour)
	assert.Equal(t, 100.0, m.ComplianceScore())
}

func TestSecurityMonitor_EventsCapped(t *testing.T) {
	m := NewSecurityMonitor()
	for i := 0; i < 1005; i++ {
		m.LogSecurityEvent("probe", "", SeverityLow, nil)
		m.LogComplianceEvent("pii_detection", ComplianceCompliant, "", nil)
	}

	s := m.Summary()
	assert.Equal(t, 1000, s.TotalSecurityEvents)
	assert.Equal(t, 1000, s.TotalComplianceLogs)
	assert.Equal(t, 1005, s.EventTypes["probe"])
	require.Len(t, s.LatestSecurityEvents, 5)
	assert.Equal(t, 1005, s.LatestSecurityEvents[4].ID)
	assert.Equal(t, 1000, s.RecentEventsCount)
}

func TestAnalysisTimeReportedInMilliseconds(t *testing.T) {
	m := NewSecurityMonitor()

	for name, v := range map[string]any{
		"security": m.AnalyzeRequest("user_input", "1 UNION SELECT password FROM users"),
		"privacy":  m.CheckDataPrivacy("reach me at jane.doe@example.com"),
	} {
		raw, err := json.Marshal(v)
		require.NoError(t, err, name)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(raw, &fields), name)
		assert.NotContains(t, fields, "analysis_time", name)
		require.Contains(t, fields, "analysis_time_ms", name)
		ms, ok := fields["analysis_time_ms"].(float64)
		require.True(t, ok, name)
		assert.GreaterOrEqual(t, ms, 0.0, name)
		assert.Less(t, ms, 1000.0, name)
	}
}

func TestElapsedMsRounding(t *testing.T) {
	ms := elapsedMs(time.Now().Add(-1500 * time.Millisecond))
	assert.GreaterOrEqual(t, ms, 1500.0)
	assert.Equal(t, ms, roundTo(ms, 2))
}
