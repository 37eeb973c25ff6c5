// Package yamlconfig implements config.Loader for YAML build files. It reads
// the same settings as the HCL loader; categories are a plain map of name to
// weight.
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/patternindex/internal/config"
	"github.com/specialistvlad/patternindex/internal/ctxlog"
)

type fileConfig struct {
	Catalog struct {
		PatternRoot   *string  `yaml:"pattern_root"`
		SourceDir     *string  `yaml:"source_dir"`
		SourceBaseURL *string  `yaml:"source_base_url"`
		HardCellLimit *int     `yaml:"hard_cell_limit"`
		Include       []string `yaml:"include"`
		Exclude       []string `yaml:"exclude"`
	} `yaml:"catalog"`
	Categories map[string]float64 `yaml:"categories"`
	Output     struct {
		IndexJSON *string `yaml:"index_json"`
		PatternJS *string `yaml:"pattern_js"`
		SQLite    *string `yaml:"sqlite"`
	} `yaml:"output"`
	Notify struct {
		URL       string  `yaml:"url"`
		Namespace *string `yaml:"namespace"`
		Event     *string `yaml:"event"`
	} `yaml:"notify"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the YAML file at path and translates it into a config.Model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	m, err := l.LoadBytes(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return m, nil
}

// LoadBytes decodes YAML source. Relative pattern roots resolve against baseDir.
// Unknown keys are rejected.
func (l *Loader) LoadBytes(data []byte, baseDir string) (*config.Model, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	m := config.Default()

	if fc.Catalog.PatternRoot != nil {
		root := *fc.Catalog.PatternRoot
		if !filepath.IsAbs(root) && baseDir != "" {
			root = filepath.Join(baseDir, root)
		}
		m.PatternRoot = root
	}
	set(&m.SourceDir, fc.Catalog.SourceDir)
	set(&m.SourceBaseURL, fc.Catalog.SourceBaseURL)
	if fc.Catalog.HardCellLimit != nil {
		m.HardCellLimit = *fc.Catalog.HardCellLimit
	}
	if fc.Catalog.Include != nil {
		m.Include = fc.Catalog.Include
	}
	if fc.Catalog.Exclude != nil {
		m.Exclude = fc.Catalog.Exclude
	}

	for name, w := range fc.Categories {
		m.Weights[name] = w
	}

	set(&m.Output.IndexJSON, fc.Output.IndexJSON)
	set(&m.Output.PatternJS, fc.Output.PatternJS)
	set(&m.Output.SQLite, fc.Output.SQLite)

	m.Notify.URL = fc.Notify.URL
	set(&m.Notify.Namespace, fc.Notify.Namespace)
	set(&m.Notify.Event, fc.Notify.Event)

	return m, nil
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
