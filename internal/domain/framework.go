package domain

import (
	"context"
	"os"
	"strings"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// SelinuxEnforcePath is the sysfs file read by ParseSecurityFramework;
// overridable in tests.
var SelinuxEnforcePath = "/sys/fs/selinux/enforce"

// ParseSecurityFramework implements D5: SELinux enforcing mode and AVC
// denials, plus AppArmor denial count. Absent files are treated as
// zero/false, never as an error.
func ParseSecurityFramework(ctx context.Context, adapter LineSource, summary *model.AuditSummary) {
	if data, err := os.ReadFile(SelinuxEnforcePath); err == nil {
		summary.SelinuxEnforcing = strings.TrimSpace(string(data)) == "1"

		avcLines := adapter.Lines(ctx, source.Query{MessageType: "AVC"})
		for _, line := range avcLines {
			if strings.Contains(line, "denied") {
				summary.SelinuxAvcDenials++
			}
		}
	}

	apparmorLines := adapter.Lines(ctx, source.Query{MessageType: "APPARMOR_DENIED"})
	summary.ApparmorDenials = len(apparmorLines)
}
