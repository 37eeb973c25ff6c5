package emit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/specialistvlad/patternindex/internal/catalog"
)

var sqliteSchema = []string{
	`CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE patterns (
		id TEXT PRIMARY KEY,
		ordinal INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		period INTEGER,
		speed TEXT,
		bbox_w INTEGER NOT NULL,
		bbox_h INTEGER NOT NULL,
		rule TEXT NOT NULL,
		weight REAL NOT NULL,
		source TEXT NOT NULL,
		rle_file TEXT NOT NULL
	)`,
	`CREATE TABLE pattern_tags (
		pattern_id TEXT NOT NULL REFERENCES patterns(id),
		position INTEGER NOT NULL,
		tag TEXT NOT NULL,
		PRIMARY KEY (pattern_id, position)
	)`,
	`CREATE TABLE pattern_cells (
		pattern_id TEXT NOT NULL REFERENCES patterns(id),
		x INTEGER NOT NULL,
		y INTEGER NOT NULL
	)`,
	`CREATE INDEX idx_patterns_category ON patterns(category)`,
	`CREATE INDEX idx_pattern_tags_tag ON pattern_tags(tag)`,
	`CREATE INDEX idx_pattern_cells_pattern ON pattern_cells(pattern_id)`,
}

// SQLiteWriter writes the catalog into a fresh SQLite database. The database
// is built in a staging file, so readers of the destination only ever see a
// complete catalog.
type SQLiteWriter struct {
	Path        string
	GeneratedBy string
}

// Name implements Emitter.
func (w *SQLiteWriter) Name() string { return "sqlite" }

// Stage implements Emitter.
func (w *SQLiteWriter) Stage(ctx context.Context, cat *catalog.Catalog) (*StagedFile, error) {
	f, err := createTemp(w.Path)
	if err != nil {
		return nil, err
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("closing staging file: %w", err)
	}

	if err := w.populate(ctx, tmp, cat); err != nil {
		os.Remove(tmp)
		// Journal files left behind by a failed transaction.
		os.Remove(tmp + "-journal")
		return nil, err
	}

	return &StagedFile{
		tmp: tmp,
		dst: w.Path,
		result: Result{
			Emitter: w.Name(),
			Path:    w.Path,
			Count:   cat.Len(),
			Noun:    "patterns",
		},
	}, nil
}

func (w *SQLiteWriter) populate(ctx context.Context, path string, cat *catalog.Catalog) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range sqliteSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	generatedBy := w.GeneratedBy
	if generatedBy == "" {
		generatedBy = DefaultGeneratedBy
	}
	meta := [][2]string{
		{"format_version", strconv.Itoa(FormatVersion)},
		{"generated_by", generatedBy},
		{"pattern_count", strconv.Itoa(cat.Len())},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("inserting meta %s: %w", kv[0], err)
		}
	}

	if err := insertPatterns(ctx, tx, cat); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return db.Close()
}

func insertPatterns(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	patternStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO patterns (id, ordinal, name, category, period, speed, bbox_w, bbox_h, rule, weight, source, rle_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer patternStmt.Close()

	tagStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pattern_tags (pattern_id, position, tag) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer tagStmt.Close()

	cellStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pattern_cells (pattern_id, x, y) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer cellStmt.Close()

	for i, e := range cat.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		var period sql.NullInt64
		if e.Period != nil {
			period = sql.NullInt64{Int64: int64(*e.Period), Valid: true}
		}
		var speed sql.NullString
		if e.Speed != nil {
			speed = sql.NullString{String: *e.Speed, Valid: true}
		}

		if _, err := patternStmt.ExecContext(ctx,
			e.ID, i, e.Name, e.Category, period, speed, e.BBoxW, e.BBoxH, e.Rule, e.Weight, e.Source, e.RLEFile,
		); err != nil {
			return fmt.Errorf("inserting pattern %s: %w", e.ID, err)
		}

		for pos, tag := range e.Tags {
			if _, err := tagStmt.ExecContext(ctx, e.ID, pos, tag); err != nil {
				return fmt.Errorf("inserting tag for %s: %w", e.ID, err)
			}
		}

		for _, c := range cat.Cells[e.ID].Cells {
			if _, err := cellStmt.ExecContext(ctx, e.ID, c.X, c.Y); err != nil {
				return fmt.Errorf("inserting cells for %s: %w", e.ID, err)
			}
		}
	}
	return nil
}
