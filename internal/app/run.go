package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/patternindex/internal/catalog"
	"github.com/specialistvlad/patternindex/internal/config"
	"github.com/specialistvlad/patternindex/internal/ctxlog"
	"github.com/specialistvlad/patternindex/internal/emit"
	"github.com/specialistvlad/patternindex/internal/notify"
	"github.com/specialistvlad/patternindex/internal/source"
)

// Run executes the main application logic: one build, followed by the watch
// loop when watch mode is on.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	model, err := a.loadModel(ctx)
	if err != nil {
		return err
	}

	var notifier *notify.Notifier
	if model.Notify.URL != "" && !a.config.DryRun {
		notifier, err = notify.New(notify.Config{
			URL:       model.Notify.URL,
			Namespace: model.Notify.Namespace,
			Event:     model.Notify.Event,
		})
		if err != nil {
			return fmt.Errorf("invalid notify configuration: %w", err)
		}
		defer notifier.Close()
	}

	if !a.config.Watch {
		_, err := a.build(ctx, model, notifier)
		a.logger.Debug("App.Run method finished.")
		return err
	}

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	// A broken pattern at startup should not end a watch session; the next
	// change gets another try.
	if _, err := a.build(ctx, model, notifier); err != nil {
		a.logger.Error("Initial build failed, waiting for changes.", "error", err)
	}
	return a.watch(ctx, model, notifier)
}

// build runs discovery, builds the catalog and writes every configured output.
func (a *App) build(ctx context.Context, model *config.Model, notifier *notify.Notifier) (*catalog.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	cat, err := a.buildCatalog(ctx, model)
	if err != nil {
		a.recordStatus(0, err)
		return nil, err
	}

	if a.config.DryRun {
		fmt.Fprintf(a.outW, "Dry run: %d patterns in %d categories, %d live cells\n",
			cat.Len(), len(cat.Categories()), cat.CellCount())
		a.recordStatus(cat.Len(), nil)
		return cat, nil
	}

	emitters := outputEmitters(model)
	if len(emitters) == 0 {
		logger.Warn("No outputs configured, nothing written.")
	}
	results, err := emit.EmitAll(ctx, cat, emitters...)
	for _, r := range results {
		fmt.Fprintln(a.outW, r.String())
	}
	if err != nil {
		a.recordStatus(0, err)
		return nil, err
	}
	a.recordStatus(cat.Len(), nil)
	logger.Info("Catalog written.", "patterns", cat.Len(), "outputs", len(results))

	if notifier != nil {
		outputs := make([]string, 0, len(results))
		for _, r := range results {
			outputs = append(outputs, r.Path)
		}
		payload := notify.Payload{
			PatternCount: cat.Len(),
			GeneratedBy:  emit.DefaultGeneratedBy,
			Outputs:      outputs,
		}
		if err := notifier.Notify(ctx, payload); err != nil {
			logger.Warn("Failed to notify catalog update.", "url", model.Notify.URL, "error", err)
		}
	}
	return cat, nil
}

func (a *App) buildCatalog(ctx context.Context, model *config.Model) (*catalog.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	docs, err := source.Discover(ctx, source.Options{
		Root:    model.SourceRoot(),
		BaseDir: model.PatternRoot,
		Include: model.Include,
		Exclude: model.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover patterns: %w", err)
	}
	logger.Info("Pattern documents discovered.", "count", len(docs), "root", model.SourceRoot())

	builder := catalog.NewBuilder(catalog.Config{
		HardCellLimit: model.HardCellLimit,
		Weights:       model.WeightTable(),
		SourceBaseURL: model.SourceBaseURL,
	})
	cat, err := builder.Build(ctx, docs)
	if err != nil {
		return nil, err
	}

	configured := make([]string, 0, len(model.Weights))
	for name := range model.Weights {
		configured = append(configured, name)
	}
	sort.Strings(configured)
	for _, hint := range catalog.SuggestCategories(configured, cat.Categories()) {
		if hint.Suggestion != "" {
			logger.Warn("Weighted category matches no pattern directory.",
				"category", hint.Configured, "did_you_mean", hint.Suggestion)
			continue
		}
		logger.Warn("Weighted category matches no pattern directory.", "category", hint.Configured)
	}
	return cat, nil
}

// outputEmitters returns an emitter for every output with a non-empty path.
func outputEmitters(m *config.Model) []emit.Emitter {
	var emitters []emit.Emitter
	if p := m.ResolvePath(m.Output.IndexJSON); p != "" {
		emitters = append(emitters, &emit.IndexWriter{Path: p})
	}
	if p := m.ResolvePath(m.Output.PatternJS); p != "" {
		emitters = append(emitters, &emit.ModuleWriter{Path: p})
	}
	if p := m.ResolvePath(m.Output.SQLite); p != "" {
		emitters = append(emitters, &emit.SQLiteWriter{Path: p})
	}
	return emitters
}
