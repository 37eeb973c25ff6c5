package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/patternindex/internal/config"
	"github.com/specialistvlad/patternindex/internal/ctxlog"
	"github.com/specialistvlad/patternindex/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the HCL file at path and translates it into a config.Model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	model, err := l.decode(ctx, file.Body, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "pattern_root", model.PatternRoot, "categories", len(model.Weights))
	return model, nil
}

// LoadBytes is Load for in-memory sources. filename only appears in
// diagnostics; relative paths resolve against baseDir.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename, baseDir string) (*config.Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	model, err := l.decode(ctx, file.Body, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
	}
	return model, nil
}

func (l *Loader) decode(ctx context.Context, body hcl.Body, baseDir string) (*config.Model, error) {
	var root schema.File
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, diags
	}
	return l.translate(ctx, &root, baseDir)
}
