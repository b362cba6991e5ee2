// Package anomaly computes deviation of the current sample against the
// persisted baseline and attaches categorical findings to the summary.
package anomaly

import (
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
)

// minBaselineAvg below which the deviation formula's divide-by-near-zero
// special case applies.
const minBaselineAvg = 0.1

// Deviation computes the percentage deviation of current from avg. When
// avg is too small to divide by meaningfully, the result is 100 if
// current is positive, else 0 -- this also makes "first-ever occurrence"
// read as a 100% event rather than a divide-by-zero.
func Deviation(current, avg float64) float64 {
	if avg < minBaselineAvg {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - avg) / avg * 100
}

// Severity classifies a deviation percentage per the fixed ladder.
func Severity(deviationPct float64) string {
	switch {
	case deviationPct > 500:
		return model.SeverityCritical
	case deviationPct > 200:
		return model.SeverityHigh
	case deviationPct > 100:
		return model.SeverityMedium
	case deviationPct > 50:
		return model.SeverityLow
	default:
		return model.SeverityNormal
	}
}

// Detect implements G: a no-op unless the baseline has folded in at least
// 5 samples (I5). Sets the summary's baseline-comparison fields and
// appends anomaly findings, bounded at maxAnomalies (a non-positive value
// falls back to model.MaxAuditAnomalies).
func Detect(summary *model.AuditSummary, b *model.Baseline, sensitiveAccessCount int, now int64, maxAnomalies int) {
	if maxAnomalies <= 0 {
		maxAnomalies = model.MaxAuditAnomalies
	}
	if b == nil || b.SampleCount < 5 {
		return
	}

	summary.AuthBaselineAvg = b.AvgAuthFailures
	summary.AuthDeviationPct = Deviation(float64(summary.AuthFailures), b.AvgAuthFailures)
	summary.SudoBaselineAvg = b.AvgSudoCount
	summary.SudoDeviationPct = Deviation(float64(summary.SudoCount), b.AvgSudoCount)

	if summary.AuthDeviationPct > 100 {
		addAnomaly(summary, maxAnomalies, model.Anomaly{
			Type:         "auth_failure_spike",
			Description:  "authentication failure rate deviates sharply from baseline",
			Severity:     Severity(summary.AuthDeviationPct),
			CurrentValue: float64(summary.AuthFailures),
			BaselineAvg:  summary.AuthBaselineAvg,
			DeviationPct: summary.AuthDeviationPct,
			Timestamp:    now,
		})
	}

	if summary.SudoDeviationPct > 200 {
		addAnomaly(summary, maxAnomalies, model.Anomaly{
			Type:         "sudo_spike",
			Description:  "sudo invocation rate deviates sharply from baseline",
			Severity:     Severity(summary.SudoDeviationPct),
			CurrentValue: float64(summary.SudoCount),
			BaselineAvg:  summary.SudoBaselineAvg,
			DeviationPct: summary.SudoDeviationPct,
			Timestamp:    now,
		})
	}

	if summary.TmpExecutions > 0 {
		addAnomaly(summary, maxAnomalies, model.Anomaly{
			Type:         "tmp_execution",
			Description:  "execution observed from /tmp",
			Severity:     model.SeverityHigh,
			CurrentValue: float64(summary.TmpExecutions),
			BaselineAvg:  0,
			DeviationPct: 100,
			Timestamp:    now,
		})
	}

	if summary.DevshmExecutions > 0 {
		addAnomaly(summary, maxAnomalies, model.Anomaly{
			Type:         "devshm_execution",
			Description:  "execution observed from /dev/shm",
			Severity:     model.SeverityCritical,
			CurrentValue: float64(summary.DevshmExecutions),
			BaselineAvg:  0,
			DeviationPct: 100,
			Timestamp:    now,
		})
	}
}

func addAnomaly(summary *model.AuditSummary, maxAnomalies int, a model.Anomaly) {
	if len(summary.Anomalies) >= maxAnomalies {
		return
	}
	summary.Anomalies = append(summary.Anomalies, a)
}
