package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/specialistvlad/patternindex/internal/config"
	"github.com/specialistvlad/patternindex/internal/ctxlog"
	"github.com/specialistvlad/patternindex/internal/fsutil"
	"github.com/specialistvlad/patternindex/internal/notify"
)

// watchDebounce is the quiet period after the last change before a rebuild.
const watchDebounce = 200 * time.Millisecond

// watch rebuilds the catalog whenever a selected pattern file under the
// source root changes. Rebuilds run one at a time on this goroutine. It
// returns nil once ctx is cancelled.
func (a *App) watch(ctx context.Context, model *config.Model, notifier *notify.Notifier) error {
	logger := ctxlog.FromContext(ctx)
	root := model.SourceRoot()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := addWatchesRecursive(ctx, fsw, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	logger.Info("Watching for pattern changes.", "root", root, "debounce", watchDebounce)

	ticker := time.NewTicker(watchDebounce / 2)
	defer ticker.Stop()

	pending := make(map[string]fsnotify.Op)
	var lastEvent time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !a.relevant(ctx, fsw, root, model, event) {
				continue
			}
			pending[event.Name] |= event.Op
			lastEvent = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			if len(pending) == 0 || time.Since(lastEvent) < watchDebounce {
				continue
			}
			logger.Info("Pattern changes detected, rebuilding.", "changed", len(pending))
			pending = make(map[string]fsnotify.Op)

			if _, err := a.build(ctx, model, notifier); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("Rebuild failed, keeping previous outputs.", "error", err)
			}
		}
	}
}

// relevant filters an fsnotify event down to changes that can alter the
// catalog. New directories are added to the watch list as a side effect.
func (a *App) relevant(ctx context.Context, fsw *fsnotify.Watcher, root string, model *config.Model, event fsnotify.Event) bool {
	logger := ctxlog.FromContext(ctx)

	if isHidden(filepath.Base(event.Name)) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addWatchesRecursive(ctx, fsw, event.Name); err != nil {
				logger.Warn("Failed to watch new directory.", "path", event.Name, "error", err)
			}
			// Files moved in together with the directory produce no events.
			return true
		}
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		return false
	}
	include := model.Include
	if len(include) == 0 {
		include = []string{"**/*.rle"}
	}
	if !fsutil.Selected(rel, include, model.Exclude) {
		// A removed or renamed directory takes its documents with it.
		return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	}

	logger.Debug("File change detected.", "path", filepath.ToSlash(rel), "op", event.Op.String())
	return true
}

func addWatchesRecursive(ctx context.Context, fsw *fsnotify.Watcher, root string) error {
	logger := ctxlog.FromContext(ctx)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			logger.Warn("Failed to watch directory.", "path", path, "error", err)
			return nil
		}
		logger.Debug("Watching directory.", "path", path)
		return nil
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
