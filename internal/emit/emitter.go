package emit

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/patternindex/internal/catalog"
	"github.com/specialistvlad/patternindex/internal/ctxlog"
)

// FormatVersion is written into every generated record.
const FormatVersion = 1

// DefaultGeneratedBy names the generator in emitted headers.
const DefaultGeneratedBy = "patternindex"

// Emitter renders a catalog into a staged file.
type Emitter interface {
	// Name identifies the emitter in logs.
	Name() string
	// Stage writes the output to a temporary file without touching the
	// destination.
	Stage(ctx context.Context, cat *catalog.Catalog) (*StagedFile, error)
}

// Result describes one committed output.
type Result struct {
	Emitter string
	Path    string
	Count   int
	Noun    string
}

// String renders the summary line for the operator.
func (r Result) String() string {
	return fmt.Sprintf("Wrote %s with %d %s", r.Path, r.Count, r.Noun)
}

// EmitAll stages every emitter and commits them together. When any stage
// fails, everything staged so far is discarded and no destination changes.
func EmitAll(ctx context.Context, cat *catalog.Catalog, emitters ...Emitter) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)

	staged := make([]*StagedFile, 0, len(emitters))
	discard := func() {
		for _, s := range staged {
			if err := s.Discard(); err != nil {
				logger.Warn("Failed to remove staged output.", "path", s.tmp, "error", err)
			}
		}
	}

	for _, e := range emitters {
		if err := ctx.Err(); err != nil {
			discard()
			return nil, err
		}
		s, err := e.Stage(ctx, cat)
		if err != nil {
			discard()
			return nil, fmt.Errorf("%s emitter failed: %w", e.Name(), err)
		}
		logger.Debug("Output staged.", "emitter", e.Name(), "path", s.dst)
		staged = append(staged, s)
	}

	results := make([]Result, 0, len(staged))
	var errs []error
	for _, s := range staged {
		if err := s.Commit(); err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, s.result)
	}
	if err := errors.Join(errs...); err != nil {
		return results, fmt.Errorf("failed to commit outputs: %w", err)
	}
	return results, nil
}
