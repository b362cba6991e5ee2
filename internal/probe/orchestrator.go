// Package probe wires components A-H into one probe invocation (I).
package probe

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/anomaly"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/baseline"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/config"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/correlate"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/domain"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/risk"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/selfguard"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// AuditLogPath is the primary log whose readability gates every probe;
// overridable in tests.
var AuditLogPath = "/var/log/audit/audit.log"

// Prober runs one probe at a time (§5: multiple concurrent probes in one
// process are not a supported configuration; Prober enforces this with a
// mutex rather than leaving it to caller discipline).
type Prober struct {
	mu      sync.Mutex
	adapter domain.LineSource
	tracker *selfguard.Tracker
	home    string
	window  time.Duration

	maxEventContexts  int
	maxFailureUsers   int
	maxSensitiveFiles int
	maxAnomalies      int
}

// New builds a Prober from a loaded Config. home is the user's $HOME,
// used to resolve the user-scoped baseline path. Capacity fields left at
// zero in cfg fall back to the package defaults wherever they're consumed;
// non-empty baseline path overrides are pushed into the baseline package's
// override vars.
func New(cfg config.Config, home string) *Prober {
	tracker := selfguard.New()

	a := source.New()
	if cfg.AusearchBinary != "" {
		a.Binary = cfg.AusearchBinary
	}
	a.Tracker = tracker

	if cfg.BaselineSystemPath != "" {
		baseline.SystemPath = cfg.BaselineSystemPath
	}
	if cfg.BaselineUserPath != "" {
		baseline.UserPathOverride = cfg.BaselineUserPath
	}

	return &Prober{
		adapter:           a,
		tracker:           tracker,
		home:              home,
		window:            time.Duration(cfg.WindowSeconds) * time.Second,
		maxEventContexts:  cfg.MaxEventContexts,
		maxFailureUsers:   cfg.MaxFailureUsers,
		maxSensitiveFiles: cfg.MaxSensitiveFiles,
		maxAnomalies:      cfg.MaxAnomalies,
	}
}

// Probe implements the orchestrator steps in order:
//  1. allocate + stamp liveness fields
//  2. bail out with enabled=false if the audit log is unreadable
//  3. clear and prime the event-context cache
//  4. run D1-D5
//  5. clear the cache
//  6. load baseline, run the anomaly detector if present
//  7. run the risk scorer
//  8. return the summary
func (p *Prober) Probe(ctx context.Context) *model.AuditSummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().Unix()
	summary := &model.AuditSummary{
		Enabled:       true,
		PeriodSeconds: int(p.window.Seconds()),
		CaptureTime:   now,
	}

	if !readable(AuditLogPath) {
		summary.Enabled = false
		return summary
	}

	cache := correlate.New(p.maxEventContexts)
	domain.ParseSyscallContext(ctx, p.adapter, cache, p.tracker)

	domain.ParseAuth(ctx, p.adapter, summary, p.maxFailureUsers)
	domain.ParsePrivilege(ctx, p.adapter, summary)
	domain.ParseFile(ctx, p.adapter, cache, summary, p.maxSensitiveFiles)
	domain.ParseExec(ctx, p.adapter, summary)
	domain.ParseSecurityFramework(ctx, p.adapter, summary)

	cache.Clear()
	if p.tracker != nil {
		p.tracker.Reset()
	}

	if b, err := baseline.Load(p.home); err == nil {
		anomaly.Detect(summary, b, summary.SensitiveFileCount, now, p.maxAnomalies)
	}

	risk.Apply(summary)

	return summary
}

// UpdateBaseline folds the just-computed summary into the persisted
// baseline and saves it. This is a distinct step from Probe -- the
// reference orchestrator only loads the baseline during a probe; updating
// it is the caller's explicit decision (typically "one probe per
// scheduled invocation, update after").
func (p *Prober) UpdateBaseline(summary *model.AuditSummary) (bool, error) {
	b, err := baseline.Load(p.home)
	if err != nil {
		b = baseline.New()
	}
	baseline.Update(b, baseline.Sample{
		AuthFailures:    summary.AuthFailures,
		SudoCount:       summary.SudoCount,
		SensitiveAccess: summary.SensitiveFileCount,
		TmpExecutions:   summary.TmpExecutions,
		ShellSpawns:     summary.ShellSpawns,
	}, time.Now().Unix())
	return baseline.Save(b, p.home)
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
