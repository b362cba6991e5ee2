package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/baseline"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

type fakeSource struct {
	byMsgType map[string][]string
}

func (f *fakeSource) Lines(_ context.Context, q source.Query) []string {
	return f.byMsgType[q.MessageType]
}

func TestProbeDisabledWhenLogUnreadable(t *testing.T) {
	oldPath := AuditLogPath
	AuditLogPath = filepath.Join(t.TempDir(), "does-not-exist.log")
	defer func() { AuditLogPath = oldPath }()

	p := &Prober{adapter: &fakeSource{}, home: t.TempDir(), window: 0}
	summary := p.Probe(context.Background())
	if summary.Enabled {
		t.Fatal("expected Enabled=false when audit log is unreadable")
	}
}

func TestProbeEndToEndBruteForce(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.log")
	if err := os.WriteFile(logPath, []byte("placeholder"), 0644); err != nil {
		t.Fatal(err)
	}
	oldPath := AuditLogPath
	AuditLogPath = logPath
	defer func() { AuditLogPath = oldPath }()

	oldSystem := baseline.SystemPath
	baseline.SystemPath = filepath.Join(t.TempDir(), "no-such-dir", "audit_baseline.dat")
	defer func() { baseline.SystemPath = oldSystem }()

	authLines := []string{
		`type=USER_AUTH msg=audit(1:1): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:2): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:3): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:4): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:5): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:6): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:7): acct="alice" res=failed`,
	}
	fs := &fakeSource{byMsgType: map[string][]string{"USER_AUTH": authLines}}

	home := t.TempDir()
	p := &Prober{adapter: fs, home: home, window: 0}
	summary := p.Probe(context.Background())

	if !summary.Enabled {
		t.Fatal("expected probe to be enabled")
	}
	if summary.AuthFailures != 7 {
		t.Fatalf("AuthFailures = %d, want 7", summary.AuthFailures)
	}
	if !summary.BruteForceDetected {
		t.Fatal("expected BruteForceDetected")
	}
	// No baseline present yet -> anomaly detection is a no-op (I5), but
	// risk scoring still runs: 7 + 10 (brute force) = 17 -> high.
	if summary.RiskScore != 17 {
		t.Fatalf("RiskScore = %d, want 17", summary.RiskScore)
	}
	if summary.RiskLevel != "high" {
		t.Fatalf("RiskLevel = %q, want high", summary.RiskLevel)
	}
	if len(summary.Anomalies) != 0 {
		t.Fatalf("expected no anomalies without a baseline, got %v", summary.Anomalies)
	}

	ok, err := p.UpdateBaseline(summary)
	if !ok || err != nil {
		t.Fatalf("UpdateBaseline() = (%v, %v), want (true, nil)", ok, err)
	}
	loaded, err := baseline.Load(home)
	if err != nil {
		t.Fatalf("Load() after update: %v", err)
	}
	if loaded.SampleCount != 1 || loaded.AvgAuthFailures != 7 {
		t.Fatalf("loaded baseline = %+v, want sample_count=1 avg_auth_failures=7", loaded)
	}
}
