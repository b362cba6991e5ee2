package domain

import (
	"context"
	"testing"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/hash"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// fakeAdapter lets tests supply canned lines per query without spawning a
// subprocess.
type fakeAdapter struct {
	byMsgType map[string][]string
}

func (f *fakeAdapter) Lines(_ context.Context, q source.Query) []string {
	return f.byMsgType[q.MessageType]
}

func adapterWithLines(msgType string, lines []string) *fakeAdapter {
	return &fakeAdapter{byMsgType: map[string][]string{msgType: lines}}
}

func TestParseAuthBruteForce(t *testing.T) {
	// S1: 7 failed + 1 success for the same account.
	lines := []string{
		`type=USER_AUTH msg=audit(1:1): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:2): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:3): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:4): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:5): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:6): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:7): acct="alice" res=failed`,
		`type=USER_AUTH msg=audit(1:8): acct="alice" res=success`,
	}
	a := adapterWithLines("USER_AUTH", lines)
	summary := &model.AuditSummary{}

	ParseAuth(context.Background(), a, summary, 0)

	if summary.AuthFailures != 7 {
		t.Fatalf("AuthFailures = %d, want 7", summary.AuthFailures)
	}
	if summary.AuthSuccesses != 1 {
		t.Fatalf("AuthSuccesses = %d, want 1", summary.AuthSuccesses)
	}
	if !summary.BruteForceDetected {
		t.Fatal("expected BruteForceDetected")
	}
	if len(summary.FailureUsers) != 1 {
		t.Fatalf("expected 1 distinct failure user, got %d", len(summary.FailureUsers))
	}
	wantHash := hash.Username("alice")
	if summary.FailureUsers[0].Hash != wantHash || summary.FailureUsers[0].Count != 7 {
		t.Fatalf("FailureUsers[0] = %+v, want {%s 7}", summary.FailureUsers[0], wantHash)
	}
}

func TestParseAuthNoBruteForce(t *testing.T) {
	lines := []string{
		`type=USER_AUTH msg=audit(1:1): acct="bob" res=failed`,
		`type=USER_AUTH msg=audit(1:2): acct="bob" res=success`,
	}
	a := adapterWithLines("USER_AUTH", lines)
	summary := &model.AuditSummary{}
	ParseAuth(context.Background(), a, summary, 0)
	if summary.BruteForceDetected {
		t.Fatal("did not expect BruteForceDetected")
	}
}

func TestParseAuthCapacityOverflowStillCountsAggregate(t *testing.T) {
	var lines []string
	for i := 0; i < model.MaxAuditUsers+5; i++ {
		lines = append(lines, `type=USER_AUTH msg=audit(1:`+itoaForTest(i)+`): acct="user`+itoaForTest(i)+`" res=failed`)
	}
	a := adapterWithLines("USER_AUTH", lines)
	summary := &model.AuditSummary{}
	ParseAuth(context.Background(), a, summary, 0)

	if summary.AuthFailures != len(lines) {
		t.Fatalf("AuthFailures = %d, want %d (aggregate must not be dropped on overflow)", summary.AuthFailures, len(lines))
	}
	if len(summary.FailureUsers) != model.MaxAuditUsers {
		t.Fatalf("FailureUsers len = %d, want capacity %d", len(summary.FailureUsers), model.MaxAuditUsers)
	}
}

func itoaForTest(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
