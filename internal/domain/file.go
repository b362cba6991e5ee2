package domain

import (
	"context"
	"strings"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/correlate"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/parser"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/procchain"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// ParseFile implements D3: correlates PATH records under the "identity"
// watch key with their SYSCALL context, tracks distinct sensitive paths,
// and flags suspicious process ancestry or sensitive-file naming. maxFiles
// bounds the SensitiveFiles collection; a non-positive value falls back to
// model.MaxAuditFiles.
func ParseFile(ctx context.Context, adapter LineSource, cache *correlate.Cache, summary *model.AuditSummary, maxFiles int) {
	if maxFiles <= 0 {
		maxFiles = model.MaxAuditFiles
	}

	lines := adapter.Lines(ctx, source.Query{Key: "identity"})

	for _, line := range lines {
		if !strings.Contains(line, "type=PATH") || !strings.Contains(line, "nametype=NORMAL") {
			continue
		}

		path, ok := parser.Field(line, "name")
		if !ok || len(path) <= 5 || strings.HasSuffix(path, "/") {
			continue
		}

		if idx := findSensitiveFile(summary, path); idx >= 0 {
			summary.SensitiveFiles[idx].Count++
			continue
		}

		if len(summary.SensitiveFiles) >= maxFiles {
			continue
		}

		record := model.FileAccess{Path: path, AccessType: "write", Count: 1}

		if evID, ok := parser.EventID(line); ok {
			if slot, found := cache.Lookup(evID); found {
				record.Process = slot.Comm
				record.Chain = model.ProcessChain{Names: []string{slot.Comm}, Depth: 1}
				if slot.PPID > 1 {
					record.Chain = procchain.Build(slot.Comm, slot.PPID, model.MaxChainDepth)
				}
				if suspicious, _ := procchain.IsSuspicious(record.Chain); suspicious {
					record.Suspicious = true
					summary.SuspiciousExecCount++
				}
			}
		}

		if strings.Contains(path, "shadow") || strings.Contains(path, "sudoers") {
			record.Suspicious = true
		}

		summary.SensitiveFiles = append(summary.SensitiveFiles, record)
	}

	summary.SensitiveFileCount = len(summary.SensitiveFiles)
}

func findSensitiveFile(summary *model.AuditSummary, path string) int {
	for i := range summary.SensitiveFiles {
		if summary.SensitiveFiles[i].Path == path {
			return i
		}
	}
	return -1
}
