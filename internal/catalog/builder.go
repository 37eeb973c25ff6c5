package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/patternindex/internal/ctxlog"
	"github.com/specialistvlad/patternindex/internal/fsutil"
	"github.com/specialistvlad/patternindex/internal/rle"
	"github.com/specialistvlad/patternindex/internal/source"
)

// DefaultSourceBaseURL prefixes the document file name to form Entry.Source.
const DefaultSourceBaseURL = "https://conwaylife.com/patterns/"

// Config holds everything a Builder needs besides the documents.
type Config struct {
	HardCellLimit int         // <= 0 selects rle.DefaultHardCellLimit
	Weights       WeightTable // nil selects DefaultWeights()
	SourceBaseURL string
}

// Builder assembles a Catalog from documents.
type Builder struct {
	decoder       *rle.Decoder
	weights       WeightTable
	sourceBaseURL string
}

// NewBuilder creates a Builder. It holds no per-build state, so one Builder
// may run any number of builds.
func NewBuilder(cfg Config) *Builder {
	weights := cfg.Weights
	if weights == nil {
		weights = DefaultWeights()
	}
	base := cfg.SourceBaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Builder{
		decoder:       rle.NewDecoder(cfg.HardCellLimit),
		weights:       weights,
		sourceBaseURL: base,
	}
}

// Build decodes every document and returns the finished catalog. Documents
// are processed in path order regardless of the order they are passed in.
// The first duplicate ID or oversized pattern aborts the build.
func (b *Builder) Build(ctx context.Context, docs []source.Document) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Catalog build started.", "documents", len(docs), "cell_limit", b.decoder.Limit())

	ordered := make([]source.Document, len(docs))
	copy(ordered, docs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return fsutil.ComparePaths(ordered[i].Path, ordered[j].Path) < 0
	})

	cat := newCatalog(len(ordered))
	for _, doc := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if cat.Has(doc.ID) {
			return nil, &DuplicateIdentifierError{ID: doc.ID, Path: doc.Path}
		}

		pattern, err := b.decoder.Decode(doc.ID, doc.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", doc.Path, err)
		}

		entry, payload := b.assemble(doc, pattern)
		cat.add(entry, payload)
		logger.Debug("Pattern added.", "id", entry.ID, "category", entry.Category, "cells", len(payload.Cells))
	}

	logger.Info("Catalog built.", "patterns", cat.Len(), "cells", cat.CellCount())
	return cat, nil
}

func (b *Builder) assemble(doc source.Document, p *rle.Pattern) (Entry, CellPayload) {
	provenance := ""
	if b.sourceBaseURL != "" {
		provenance = b.sourceBaseURL + doc.FileName()
	}

	entry := Entry{
		ID:       doc.ID,
		Name:     DisplayName(doc.ID),
		Category: doc.Category,
		Tags:     Tags(doc.ID, doc.Category),
		Period:   p.Period,
		Speed:    p.Speed,
		BBoxW:    p.Width,
		BBoxH:    p.Height,
		Rule:     p.Rule,
		Weight:   b.weights.Weight(doc.Category),
		Source:   provenance,
		RLEFile:  doc.RelPath,
	}
	cells := p.Cells
	if cells == nil {
		cells = []rle.Cell{}
	}
	payload := CellPayload{
		BBoxW: p.Width,
		BBoxH: p.Height,
		Rule:  p.Rule,
		Cells: cells,
	}
	return entry, payload
}
