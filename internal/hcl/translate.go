// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/patternindex/internal/config"
	"github.com/specialistvlad/patternindex/internal/ctxlog"
	"github.com/specialistvlad/patternindex/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translate layers the decoded file over config.Default().
func (l *Loader) translate(ctx context.Context, f *schema.File, baseDir string) (*config.Model, error) {
	m := config.Default()

	if c := f.Catalog; c != nil {
		if c.PatternRoot != nil {
			m.PatternRoot = resolveAgainst(baseDir, *c.PatternRoot)
		}
		setString(&m.SourceDir, c.SourceDir)
		setString(&m.SourceBaseURL, c.SourceBaseURL)
		if c.HardCellLimit != nil {
			m.HardCellLimit = *c.HardCellLimit
		}
		if c.Include != nil {
			m.Include = c.Include
		}
		if c.Exclude != nil {
			m.Exclude = c.Exclude
		}
	}

	for _, cat := range f.Categories {
		if _, dup := m.Weights[cat.Name]; dup {
			return nil, fmt.Errorf("category %q is declared more than once", cat.Name)
		}
		var weight float64
		if err := decodeNumber(ctx, cat.Weight, &weight); err != nil {
			return nil, fmt.Errorf("invalid weight for category %q: %w", cat.Name, err)
		}
		m.Weights[cat.Name] = weight
	}

	if o := f.Output; o != nil {
		setString(&m.Output.IndexJSON, o.IndexJSON)
		setString(&m.Output.PatternJS, o.PatternJS)
		setString(&m.Output.SQLite, o.SQLite)
	}

	if n := f.Notify; n != nil {
		m.Notify.URL = n.URL
		setString(&m.Notify.Namespace, n.Namespace)
		setString(&m.Notify.Event, n.Event)
	}

	return m, nil
}

// decodeNumber converts a raw cty.Value into a float64, accepting anything
// cty can convert to a number (for example the string "0.5").
func decodeNumber(ctx context.Context, val cty.Value, target *float64) error {
	logger := ctxlog.FromContext(ctx)

	if val.IsNull() {
		return fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return fmt.Errorf("value must be known at load time")
	}

	converted, err := convert.Convert(val, cty.Number)
	if err != nil {
		return fmt.Errorf("cannot convert %s to number: %w", val.Type().FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}

	return gocty.FromCtyValue(converted, target)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func resolveAgainst(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
