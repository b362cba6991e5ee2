package domain

import (
	"context"
	"testing"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
)

func TestParsePrivilegeCountsSudoAndSu(t *testing.T) {
	lines := []string{
		`type=USER_CMD msg=audit(1:1): exe="/usr/bin/sudo" cmd="whoami"`,
		`type=USER_CMD msg=audit(1:2): exe="/usr/bin/su" cmd="-"`,
		`type=USER_CMD msg=audit(1:3): exe="/usr/bin/sudo" cmd="ls"`,
		`type=USER_CMD msg=audit(1:4): exe="/usr/bin/sudo-something-else" cmd="ls"`,
	}
	a := adapterWithLines("USER_CMD", lines)
	summary := &model.AuditSummary{}
	ParsePrivilege(context.Background(), a, summary)

	if summary.SudoCount != 2 {
		t.Fatalf("SudoCount = %d, want 2 (exact exe= match only)", summary.SudoCount)
	}
	if summary.SuCount != 1 {
		t.Fatalf("SuCount = %d, want 1", summary.SuCount)
	}
}
