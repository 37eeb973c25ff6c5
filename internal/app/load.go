package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/patternindex/internal/config"
	"github.com/specialistvlad/patternindex/internal/ctxlog"
	"github.com/specialistvlad/patternindex/internal/hcl"
	"github.com/specialistvlad/patternindex/internal/yamlconfig"
)

// LoaderFor picks the configuration loader for path by its extension.
func LoaderFor(path string) (config.Loader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		return hcl.NewLoader(), nil
	case ".yaml", ".yml":
		return yamlconfig.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (want .hcl, .yaml or .yml)", ext)
	}
}

// loadModel reads the build file, if any, and applies the command-line
// overrides on top of it.
func (a *App) loadModel(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := config.Default()
	if a.config.ConfigPath != "" {
		loader, err := LoaderFor(a.config.ConfigPath)
		if err != nil {
			return nil, err
		}
		model, err = loader.Load(ctx, a.config.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Debug("Configuration file loaded.", "path", a.config.ConfigPath)
	}

	if err := a.applyOverrides(model); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("Configuration resolved.",
		"pattern_root", model.PatternRoot,
		"source_root", model.SourceRoot(),
		"cell_limit", model.HardCellLimit,
	)
	return model, nil
}

func (a *App) applyOverrides(m *config.Model) error {
	if a.config.PatternRoot != "" {
		m.PatternRoot = a.config.PatternRoot
	}
	if a.config.CellLimit > 0 {
		m.HardCellLimit = a.config.CellLimit
	}
	if a.config.SQLitePath != "" {
		// Flag paths are relative to the working directory, not the pattern root.
		abs, err := filepath.Abs(a.config.SQLitePath)
		if err != nil {
			return fmt.Errorf("resolving sqlite path: %w", err)
		}
		m.Output.SQLite = abs
	}
	if a.config.NotifyURL != "" {
		m.Notify.URL = a.config.NotifyURL
	}
	return nil
}
