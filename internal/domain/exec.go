package domain

import (
	"context"
	"strings"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// ParseExec implements D4: tags execve syscalls launched from /tmp or
// /dev/shm, and counts shell spawns (/bin/sh or /bin/bash) separately.
func ParseExec(ctx context.Context, adapter LineSource, summary *model.AuditSummary) {
	execLines := adapter.Lines(ctx, source.Query{Syscall: "execve", Interpreted: true})
	for _, line := range execLines {
		if strings.Contains(line, "/tmp/") {
			summary.TmpExecutions++
		}
		if strings.Contains(line, "/dev/shm/") {
			summary.DevshmExecutions++
		}
	}

	shellLines := adapter.Lines(ctx, source.Query{Syscall: "execve", Interpreted: true})
	for _, line := range shellLines {
		if strings.Contains(line, "name=\"/bin/sh\"") || strings.Contains(line, "name=\"/bin/bash\"") {
			summary.ShellSpawns++
		}
	}
}
