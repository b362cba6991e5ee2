// Package domain implements the five audit-summary domain parsers (D1-D5):
// authentication, privilege escalation, sensitive file access, suspicious
// execution, and security-framework denials.
package domain

import (
	"context"
	"strings"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/hash"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/parser"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// maxAuthLines bounds the tail of USER_AUTH lines considered, mirroring
// the reference implementation's "tail -100" cap.
const maxAuthLines = 100

// ParseAuth implements D1: counts authentication successes/failures,
// tracks failing accounts by pseudonymized hash, and derives the
// brute-force heuristic. maxUsers bounds the FailureUsers collection; a
// non-positive value falls back to model.MaxAuditUsers.
func ParseAuth(ctx context.Context, adapter LineSource, summary *model.AuditSummary, maxUsers int) {
	if maxUsers <= 0 {
		maxUsers = model.MaxAuditUsers
	}

	lines := adapter.Lines(ctx, source.Query{MessageType: "USER_AUTH"})
	filtered := filterAuthLines(lines)
	if len(filtered) > maxAuthLines {
		filtered = filtered[len(filtered)-maxAuthLines:]
	}

	for _, line := range filtered {
		if strings.Contains(line, "res=failed") {
			summary.AuthFailures++
			acct, ok := parser.Field(line, "acct")
			if ok {
				upsertFailureUser(summary, hash.Username(acct), maxUsers)
			}
		} else if strings.Contains(line, "res=success") {
			summary.AuthSuccesses++
		}
	}

	summary.BruteForceDetected = summary.AuthFailures > 5
}

func filterAuthLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.Contains(l, "res=success") || strings.Contains(l, "res=failed") {
			out = append(out, l)
		}
	}
	return out
}

// upsertFailureUser increments the matching hashed-user entry, or appends
// a new one when capacity remains. On overflow the per-user count is
// dropped; the aggregate AuthFailures counter has already been updated by
// the caller regardless (I2/capacity-overflow policy).
func upsertFailureUser(summary *model.AuditSummary, tag string, maxUsers int) {
	for i := range summary.FailureUsers {
		if summary.FailureUsers[i].Hash == tag {
			summary.FailureUsers[i].Count++
			return
		}
	}
	if len(summary.FailureUsers) >= maxUsers {
		return
	}
	summary.FailureUsers = append(summary.FailureUsers, model.HashedUser{Hash: tag, Count: 1})
}
