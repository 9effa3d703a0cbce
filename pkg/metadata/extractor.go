package metadata

import (
	"context"

	"github.com/sdejongh/renamer/pkg/logging"
)

// Extractor reads the metadata of one file. Files without metadata yield
// empty Data and a nil error.
type Extractor interface {
	Extract(ctx context.Context, path string) (Data, error)
}

// Chain runs several extractors and merges their output; keys from earlier
// extractors win. A failing extractor is logged and skipped.
type Chain struct {
	extractors []Extractor
	logger     logging.Logger
}

// NewChain creates a chain of extractors
func NewChain(logger logging.Logger, extractors ...Extractor) *Chain {
	return &Chain{extractors: extractors, logger: logging.OrNull(logger)}
}

// Extract merges the metadata of every extractor in order
func (c *Chain) Extract(ctx context.Context, path string) (Data, error) {
	merged := Data{}
	for _, e := range c.extractors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := e.Extract(ctx, path)
		if err != nil {
			c.logger.Warn(ctx, "metadata extraction failed", logging.Fields{"path": path, "error": err.Error()})
			continue
		}
		merged.Merge(d)
	}
	return merged, nil
}

// StaticExtractor serves fixed metadata per path
type StaticExtractor map[string]Data

// Extract returns a copy of the stored data for path
func (s StaticExtractor) Extract(ctx context.Context, path string) (Data, error) {
	d := Data{}
	d.Merge(s[path])
	return d, nil
}
