package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
)

// WriteJSON serializes the summary as indented JSON. If path is "-" or
// empty, writes to stdout.
func WriteJSON(summary *model.AuditSummary, path string) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
