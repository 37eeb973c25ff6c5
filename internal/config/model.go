package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"path/filepath"

	"github.com/specialistvlad/patternindex/internal/catalog"
)

// Default values for a build without a configuration file.
const (
	DefaultPatternRoot = "contents/patterns"
	DefaultSourceDir   = "rle"
	DefaultIndexJSON   = "index.json"
	DefaultPatternJS   = "patternData.js"
	DefaultNotifyEvent = "catalog:updated"
)

// Model is the unified, format-agnostic representation of a catalog build.
type Model struct {
	PatternRoot   string // outputs and RLEFile paths are relative to this
	SourceDir     string // category directories live here, relative to PatternRoot
	SourceBaseURL string
	HardCellLimit int // 0 selects the decoder default
	Include       []string
	Exclude       []string

	// Weights overrides the built-in category weight table.
	Weights map[string]float64

	Output Output
	Notify Notify
}

// Output lists where each emitter writes. An empty path disables the emitter.
type Output struct {
	IndexJSON string
	PatternJS string
	SQLite    string
}

// Notify configures the socket.io change notification. An empty URL disables it.
type Notify struct {
	URL       string
	Namespace string
	Event     string
}

// Default returns the model used when no configuration file is given.
func Default() *Model {
	return &Model{
		PatternRoot:   DefaultPatternRoot,
		SourceDir:     DefaultSourceDir,
		SourceBaseURL: catalog.DefaultSourceBaseURL,
		Include:       []string{"**/*.rle"},
		Weights:       map[string]float64{},
		Output: Output{
			IndexJSON: DefaultIndexJSON,
			PatternJS: DefaultPatternJS,
		},
		Notify: Notify{
			Namespace: "/",
			Event:     DefaultNotifyEvent,
		},
	}
}

// SourceRoot is the directory scanned for pattern documents.
func (m *Model) SourceRoot() string {
	return m.ResolvePath(m.SourceDir)
}

// ResolvePath resolves p against PatternRoot. Empty and absolute paths are
// returned unchanged.
func (m *Model) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.PatternRoot, p)
}

// WeightTable returns the built-in weight table with Weights applied.
func (m *Model) WeightTable() catalog.WeightTable {
	return catalog.DefaultWeights().Merge(m.Weights)
}

// Validate checks the model for values no build can work with.
func (m *Model) Validate() error {
	var errs []error
	if m.PatternRoot == "" {
		errs = append(errs, errors.New("pattern_root must not be empty"))
	}
	if m.HardCellLimit < 0 {
		errs = append(errs, fmt.Errorf("hard_cell_limit must not be negative, got %d", m.HardCellLimit))
	}
	for cat, w := range m.Weights {
		if cat == "" {
			errs = append(errs, errors.New("category name must not be empty"))
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			errs = append(errs, fmt.Errorf("weight for category %q must be a non-negative number, got %v", cat, w))
		}
	}
	if m.Notify.URL != "" {
		u, err := url.Parse(m.Notify.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("notify url %q is not an absolute URL", m.Notify.URL))
		}
		if m.Notify.Event == "" {
			errs = append(errs, errors.New("notify event must not be empty"))
		}
	}
	return errors.Join(errs...)
}
