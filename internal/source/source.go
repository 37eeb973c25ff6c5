// Package source discovers pattern documents on disk and turns them into
// Documents for the catalog builder.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/patternindex/internal/ctxlog"
	"github.com/specialistvlad/patternindex/internal/fsutil"
)

// DefaultInclude selects every .rle file below the discovery root.
var DefaultInclude = []string{"**/*.rle"}

// Document is one raw pattern document together with its discovery facts.
type Document struct {
	Path     string // Filesystem path as discovered
	RelPath  string // Slash-separated path relative to the base directory
	ID       string // Base name without extension
	Category string // Name of the immediate parent directory
	Text     string
}

// FileName returns the base name of the document, extension included.
func (d Document) FileName() string {
	return filepath.Base(d.Path)
}

// Options configures Discover.
type Options struct {
	// Root holds the category directories.
	Root string
	// BaseDir anchors Document.RelPath. Defaults to Root.
	BaseDir string
	Include []string
	Exclude []string
}

// Discover finds every document under opts.Root and reads it. Documents come
// back in fsutil.ComparePaths order.
func Discover(ctx context.Context, opts Options) ([]Document, error) {
	logger := ctxlog.FromContext(ctx)

	if opts.Root == "" {
		return nil, fmt.Errorf("discovery root must not be empty")
	}
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("error accessing pattern directory %s: %w", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pattern directory %s is not a directory", opts.Root)
	}

	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = opts.Root
	}

	paths, err := fsutil.FindFiles(opts.Root, include, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", opts.Root, err)
	}
	logger.Debug("Discovered pattern files.", "root", opts.Root, "count", len(paths))

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := readDocument(path, baseDir)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func readDocument(path, baseDir string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read pattern file %s: %w", path, err)
	}

	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = path
	}

	name := filepath.Base(path)
	return Document{
		Path:     path,
		RelPath:  filepath.ToSlash(rel),
		ID:       strings.TrimSuffix(name, filepath.Ext(name)),
		Category: filepath.Base(filepath.Dir(path)),
		// Undecodable bytes are dropped rather than rejected.
		Text: strings.ToValidUTF8(string(data), ""),
	}, nil
}
