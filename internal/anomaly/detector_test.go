package anomaly

import (
	"testing"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
)

func TestDeviationNearZeroBaseline(t *testing.T) {
	if got := Deviation(5, 0.05); got != 100 {
		t.Fatalf("Deviation(5, 0.05) = %v, want 100", got)
	}
	if got := Deviation(0, 0.05); got != 0 {
		t.Fatalf("Deviation(0, 0.05) = %v, want 0", got)
	}
}

func TestDeviationNormalCase(t *testing.T) {
	// S2: baseline avg 2.0, current 20 -> 900%.
	got := Deviation(20, 2.0)
	if got != 900 {
		t.Fatalf("Deviation(20, 2.0) = %v, want 900", got)
	}
}

func TestSeverityLadder(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{600, model.SeverityCritical},
		{300, model.SeverityHigh},
		{150, model.SeverityMedium},
		{75, model.SeverityLow},
		{10, model.SeverityNormal},
	}
	for _, c := range cases {
		if got := Severity(c.pct); got != c.want {
			t.Errorf("Severity(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func TestDetectNoopBelowMinSampleCount(t *testing.T) {
	summary := &model.AuditSummary{AuthFailures: 100}
	b := &model.Baseline{SampleCount: 4, AvgAuthFailures: 1}
	Detect(summary, b, 0, 1000, 0)
	if len(summary.Anomalies) != 0 {
		t.Fatalf("expected no anomalies when sample_count < 5, got %v", summary.Anomalies)
	}
	if summary.AuthDeviationPct != 0 {
		t.Fatalf("expected deviation fields untouched, got %v", summary.AuthDeviationPct)
	}
}

func TestDetectAuthFailureSpike(t *testing.T) {
	// S2.
	summary := &model.AuditSummary{AuthFailures: 20}
	b := &model.Baseline{SampleCount: 10, AvgAuthFailures: 2.0}
	Detect(summary, b, 0, 1000, 0)

	if summary.AuthDeviationPct != 900 {
		t.Fatalf("AuthDeviationPct = %v, want 900", summary.AuthDeviationPct)
	}
	if len(summary.Anomalies) != 1 || summary.Anomalies[0].Type != "auth_failure_spike" {
		t.Fatalf("Anomalies = %+v", summary.Anomalies)
	}
	if summary.Anomalies[0].Severity != model.SeverityCritical {
		t.Fatalf("Severity = %q, want CRITICAL", summary.Anomalies[0].Severity)
	}
}

func TestDetectTmpExecutionAlwaysFlagged(t *testing.T) {
	// Fixed-severity finding per spec.md 4.G: deviation is pinned to 100
	// and baseline is reported as 0, matching audit.c's add_anomaly(...,
	// 0, 100.0f) call for this finding -- the live running average is
	// never surfaced here, unlike auth_failure_spike/sudo_spike.
	summary := &model.AuditSummary{TmpExecutions: 1}
	b := &model.Baseline{SampleCount: 5, AvgTmpExecutions: 7.5}
	Detect(summary, b, 0, 1000, 0)

	found := false
	for _, a := range summary.Anomalies {
		if a.Type == "tmp_execution" {
			found = true
			if a.Severity != model.SeverityHigh || a.DeviationPct != 100 || a.BaselineAvg != 0 {
				t.Fatalf("tmp_execution anomaly = %+v, want BaselineAvg=0", a)
			}
		}
	}
	if !found {
		t.Fatal("expected tmp_execution anomaly")
	}
}

func TestDetectDevshmExecutionAlwaysFlagged(t *testing.T) {
	// S3: empty baseline with sample_count>=5 required for detection to run
	// at all; devshm_execution fires regardless of deviation.
	summary := &model.AuditSummary{DevshmExecutions: 1}
	b := &model.Baseline{SampleCount: 5}
	Detect(summary, b, 0, 1000, 0)

	found := false
	for _, a := range summary.Anomalies {
		if a.Type == "devshm_execution" {
			found = true
			if a.Severity != model.SeverityCritical || a.DeviationPct != 100 {
				t.Fatalf("devshm_execution anomaly = %+v", a)
			}
		}
	}
	if !found {
		t.Fatal("expected devshm_execution anomaly")
	}
}

func TestDetectCapacityBound(t *testing.T) {
	summary := &model.AuditSummary{AuthFailures: 1000, SudoCount: 1000, TmpExecutions: 1, DevshmExecutions: 1}
	for i := 0; i < model.MaxAuditAnomalies; i++ {
		summary.Anomalies = append(summary.Anomalies, model.Anomaly{Type: "filler"})
	}
	b := &model.Baseline{SampleCount: 5, AvgAuthFailures: 0.01, AvgSudoCount: 0.01}
	Detect(summary, b, 0, 1000, 0)
	if len(summary.Anomalies) != model.MaxAuditAnomalies {
		t.Fatalf("Anomalies len = %d, want capacity %d (overflow must be dropped silently)", len(summary.Anomalies), model.MaxAuditAnomalies)
	}
}
