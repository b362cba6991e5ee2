package domain

import (
	"context"
	"strings"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// ParsePrivilege implements D2: counts USER_CMD records invoking sudo and
// su exactly, via two independent queries.
func ParsePrivilege(ctx context.Context, adapter LineSource, summary *model.AuditSummary) {
	sudoLines := adapter.Lines(ctx, source.Query{MessageType: "USER_CMD"})
	for _, line := range sudoLines {
		if strings.Contains(line, `exe="/usr/bin/sudo"`) {
			summary.SudoCount++
		}
	}

	suLines := adapter.Lines(ctx, source.Query{MessageType: "USER_CMD"})
	for _, line := range suLines {
		if strings.Contains(line, `exe="/usr/bin/su"`) {
			summary.SuCount++
		}
	}
}
