package domain

import (
	"context"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/source"
)

// LineSource is the subset of *source.Adapter the domain parsers depend
// on; accepting the interface (rather than the concrete adapter type)
// lets tests supply canned lines without spawning ausearch.
type LineSource interface {
	Lines(ctx context.Context, q source.Query) []string
}
