// Package render formats an audit summary for a human reader or for
// machine consumption, the way the teacher's diff/output packages render
// a performance report.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
)

// Text renders a multi-section human-readable report.
func Text(s *model.AuditSummary) string {
	var b strings.Builder

	if !s.Enabled {
		fmt.Fprintln(&b, "audit probe: DISABLED (audit log unreadable)")
		return b.String()
	}

	fmt.Fprintf(&b, "audit probe @ %s (window %ds)\n", time.Unix(s.CaptureTime, 0).UTC().Format(time.RFC3339), s.PeriodSeconds)
	fmt.Fprintf(&b, "risk: %s (score=%d)\n\n", strings.ToUpper(s.RiskLevel), s.RiskScore)

	fmt.Fprintln(&b, "-- authentication --")
	fmt.Fprintf(&b, "  failures=%d successes=%d brute_force=%v\n", s.AuthFailures, s.AuthSuccesses, s.BruteForceDetected)
	for _, u := range s.FailureUsers {
		fmt.Fprintf(&b, "  failing account %s: %d\n", u.Hash, u.Count)
	}

	fmt.Fprintln(&b, "\n-- privilege --")
	fmt.Fprintf(&b, "  sudo=%d su=%d\n", s.SudoCount, s.SuCount)

	fmt.Fprintln(&b, "\n-- sensitive files --")
	if len(s.SensitiveFiles) == 0 {
		fmt.Fprintln(&b, "  none")
	}
	for _, f := range s.SensitiveFiles {
		marker := ""
		if f.Suspicious {
			marker = " [SUSPICIOUS]"
		}
		fmt.Fprintf(&b, "  %s (count=%d, process=%s)%s\n", f.Path, f.Count, f.Process, marker)
	}

	fmt.Fprintln(&b, "\n-- execution --")
	fmt.Fprintf(&b, "  tmp=%d devshm=%d shells=%d suspicious_chains=%d\n",
		s.TmpExecutions, s.DevshmExecutions, s.ShellSpawns, s.SuspiciousExecCount)

	fmt.Fprintln(&b, "\n-- security framework --")
	fmt.Fprintf(&b, "  selinux_enforcing=%v avc_denials=%d apparmor_denials=%d\n",
		s.SelinuxEnforcing, s.SelinuxAvcDenials, s.ApparmorDenials)

	if len(s.Anomalies) > 0 {
		fmt.Fprintln(&b, "\n-- anomalies --")
		for _, a := range s.Anomalies {
			fmt.Fprintf(&b, "  [%s] %s: %s (current=%.1f baseline=%.1f deviation=%.1f%%)\n",
				a.Severity, a.Type, a.Description, a.CurrentValue, a.BaselineAvg, a.DeviationPct)
		}
	}

	return b.String()
}
