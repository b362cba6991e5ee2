package domain

import (
	"context"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/correlate"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/parser"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/selfguard"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// ParseSyscallContext implements component C's priming step: it scans
// SYSCALL records for the window and fills the correlation cache with
// pid/ppid/comm/exe per event serial. A later SYSCALL record for the same
// serial overwrites an earlier one -- this is intentional (the last
// observation wins). Records whose pid belongs to the sentinel itself or
// one of its ausearch children (per tracker, D3/selfguard) are skipped
// entirely rather than cached, so they never surface as SYSCALL noise. A
// nil tracker disables this filtering.
func ParseSyscallContext(ctx context.Context, adapter LineSource, cache *correlate.Cache, tracker *selfguard.Tracker) {
	lines := adapter.Lines(ctx, source.Query{MessageType: "SYSCALL"})
	for _, line := range lines {
		evID, ok := parser.EventID(line)
		if !ok {
			continue
		}
		if pid, ok := parser.IntField(line, "pid"); ok && tracker != nil && tracker.IsOwnPID(pid) {
			continue
		}
		slot, ok := cache.GetOrCreate(evID)
		if !ok {
			continue // capacity exhausted; silently dropped per policy
		}
		if pid, ok := parser.IntField(line, "pid"); ok {
			slot.PID = pid
		}
		if ppid, ok := parser.IntField(line, "ppid"); ok {
			slot.PPID = ppid
		}
		if comm, ok := parser.Field(line, "comm"); ok {
			slot.Comm = truncate(comm, 31)
		}
		if exe, ok := parser.Field(line, "exe"); ok {
			slot.Exe = truncate(exe, 255)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
