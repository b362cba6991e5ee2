// Package risk implements the deterministic weighted risk score and its
// categorical classification.
package risk

import "github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"

// Score computes the integer risk score for a summary. The deviation
// multiplier (step 3) is applied to the entire running accumulator,
// including the brute-force bonus already added in step 2 -- this
// ordering is load-bearing (see design notes); reordering it changes the
// output and breaks scenario S2.
func Score(s *model.AuditSummary) int {
	score := s.AuthFailures

	if s.BruteForceDetected {
		score += 10
	}

	switch {
	case s.AuthDeviationPct > 500:
		score *= 5
	case s.AuthDeviationPct > 200:
		score *= 3
	case s.AuthDeviationPct > 100:
		score *= 2
	}

	if s.SudoDeviationPct > 200 {
		score += 5
	}

	score += 2 * s.SuCount
	score += 3 * (s.PermissionChanges + s.OwnershipChanges)

	for _, f := range s.SensitiveFiles {
		score += 2
		if f.Suspicious {
			score += 5
		}
	}

	score += 4*s.TmpExecutions + 6*s.DevshmExecutions + 10*s.SuspiciousExecCount
	score += s.SelinuxAvcDenials + s.ApparmorDenials

	return score
}

// Level classifies a risk score per the fixed thresholds. The mapping is
// monotone and total (I4).
func Level(score int) string {
	switch {
	case score >= 31:
		return model.RiskCritical
	case score >= 16:
		return model.RiskHigh
	case score >= 6:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// Apply computes and stores both RiskScore and RiskLevel on the summary.
func Apply(s *model.AuditSummary) {
	s.RiskScore = Score(s)
	s.RiskLevel = Level(s.RiskScore)
}
