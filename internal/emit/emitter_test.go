package emit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/patternindex/internal/catalog"
	"github.com/specialistvlad/patternindex/internal/rle"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func sampleCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Entries: []catalog.Entry{
			{
				ID:       "glider",
				Name:     "Glider",
				Category: "gliders",
				Tags:     []string{"glider"},
				Period:   intPtr(4),
				Speed:    strPtr("c/4"),
				BBoxW:    3,
				BBoxH:    3,
				Rule:     "B3/S23",
				Weight:   1.2,
				Source:   "https://conwaylife.com/patterns/glider.rle",
				RLEFile:  "rle/gliders/glider.rle",
			},
			{
				ID:       "block",
				Name:     "Block",
				Category: "still_lifes",
				Tags:     []string{"block"},
				BBoxW:    2,
				BBoxH:    2,
				Rule:     "B3/S23",
				Weight:   0.4,
				Source:   "https://conwaylife.com/patterns/block.rle",
				RLEFile:  "rle/still_lifes/block.rle",
			},
		},
		Cells: map[string]catalog.CellPayload{
			"glider": {BBoxW: 3, BBoxH: 3, Rule: "B3/S23", Cells: []rle.Cell{{X: 1, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}},
			"block":  {BBoxW: 2, BBoxH: 2, Rule: "B3/S23", Cells: []rle.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}},
		},
	}
}

type failingEmitter struct{}

func (failingEmitter) Name() string { return "failing" }
func (failingEmitter) Stage(context.Context, *catalog.Catalog) (*StagedFile, error) {
	return nil, errors.New("disk on fire")
}

func TestEmitAll_WritesEveryOutput(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.json")
	modulePath := filepath.Join(dir, "patternData.js")
	dbPath := filepath.Join(dir, "db", "patterns.db")
	cat := sampleCatalog()

	// --- Act ---
	results, err := EmitAll(context.Background(), cat,
		&IndexWriter{Path: indexPath, GeneratedBy: "tools/build"},
		&ModuleWriter{Path: modulePath, GeneratedBy: "tools/build"},
		&SQLiteWriter{Path: dbPath, GeneratedBy: "tools/build"},
	)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Wrote "+indexPath+" with 2 patterns", results[0].String())
	assert.Equal(t, "Wrote "+modulePath+" with 2 compiled pattern payloads", results[1].String())
	assert.Equal(t, "Wrote "+dbPath+" with 2 patterns", results[2].String())
	assert.FileExists(t, indexPath)
	assert.FileExists(t, modulePath)
	assert.FileExists(t, dbPath)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestEmitAll_FailureLeavesDestinationsUntouched(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.json")
	require.NoError(t, os.WriteFile(indexPath, []byte("old"), 0644))

	// --- Act ---
	results, err := EmitAll(context.Background(), sampleCatalog(),
		&IndexWriter{Path: indexPath},
		failingEmitter{},
	)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "failing emitter failed")
	require.Nil(t, results)
	require.Equal(t, "old", readFile(t, indexPath))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "staged files must be cleaned up")
}

func TestEmitAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EmitAll(ctx, sampleCatalog(), &IndexWriter{Path: filepath.Join(t.TempDir(), "index.json")})

	require.ErrorIs(t, err, context.Canceled)
}

func TestIndexWriter_Format(t *testing.T) {
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "index.json")

	// --- Act ---
	_, err := EmitAll(context.Background(), sampleCatalog(), &IndexWriter{Path: path, GeneratedBy: "tools/build"})

	// --- Assert ---
	require.NoError(t, err)
	got := readFile(t, path)
	require.True(t, strings.HasPrefix(got, "{\n  \"formatVersion\": 1,\n  \"generatedBy\": \"tools/build\",\n  \"patternCount\": 2,\n"))
	require.True(t, strings.HasSuffix(got, "}\n"))
	require.Contains(t, got, `"period": null`)
	require.Contains(t, got, `"speed": "c/4"`)

	var decoded Index
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	require.Equal(t, 2, decoded.PatternCount)
	require.Equal(t, []string{"glider", "block"}, []string{decoded.Patterns[0].ID, decoded.Patterns[1].ID})
}

func TestIndexWriter_EmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	_, err := EmitAll(context.Background(), &catalog.Catalog{}, &IndexWriter{Path: path})

	require.NoError(t, err)
	require.Contains(t, readFile(t, path), `"patterns": []`)
}

func TestModuleWriter_Format(t *testing.T) {
	// --- Act ---
	data, err := RenderModule(sampleCatalog(), "tools/build")

	// --- Assert ---
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, "/* Auto-generated by tools/build. Do not edit by hand. */", lines[0])
	require.Equal(t, ".pragma library", lines[1])
	require.Equal(t, "", lines[2])
	require.True(t, strings.HasPrefix(lines[3], `var patternIndex = {"formatVersion":1,"generatedBy":"tools/build","patternCount":2,`))
	require.True(t, strings.HasSuffix(lines[3], ";"))
	require.Equal(t, "", lines[4])
	require.Equal(t, `var patternCellsById = {"block":{"bboxW":2,"bboxH":2,"rule":"B3/S23","cells":[{"x":0,"y":0},{"x":1,"y":0},{"x":0,"y":1},{"x":1,"y":1}]},"glider":{"bboxW":3,"bboxH":3,"rule":"B3/S23","cells":[{"x":1,"y":0},{"x":2,"y":1},{"x":0,"y":2},{"x":1,"y":2},{"x":2,"y":2}]}};`, lines[5])
	require.Equal(t, "", lines[6])
}

func TestEncodeJSON_EscapesNonASCII(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "Glider", want: `"Glider"`},
		{name: "latin", in: "Gösper", want: `"G\u00f6sper"`},
		{name: "astral", in: "a😀", want: `"a\ud83d\ude00"`},
		{name: "html stays literal", in: "<a&b>", want: `"<a&b>"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := encodeJSON(tc.in, "")
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))
		})
	}
}

func TestSQLiteWriter_Contents(t *testing.T) {
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "patterns.db")
	ctx := context.Background()

	// --- Act ---
	_, err := EmitAll(ctx, sampleCatalog(), &SQLiteWriter{Path: path})
	require.NoError(t, err)

	// --- Assert ---
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'pattern_count'`).Scan(&count))
	require.Equal(t, "2", count)

	var (
		ordinal int
		period  sql.NullInt64
		speed   sql.NullString
	)
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT ordinal, period, speed FROM patterns WHERE id = 'block'`,
	).Scan(&ordinal, &period, &speed))
	require.Equal(t, 1, ordinal)
	require.False(t, period.Valid)
	require.False(t, speed.Valid)

	var cells int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pattern_cells WHERE pattern_id = 'glider'`,
	).Scan(&cells))
	require.Equal(t, 5, cells)

	var tag string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT tag FROM pattern_tags WHERE pattern_id = 'glider' AND position = 0`,
	).Scan(&tag))
	require.Equal(t, "glider", tag)
}

func TestSQLiteWriter_ReplacesPreviousDatabase(t *testing.T) {
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "patterns.db")
	ctx := context.Background()
	_, err := EmitAll(ctx, sampleCatalog(), &SQLiteWriter{Path: path})
	require.NoError(t, err)

	smaller := sampleCatalog()
	smaller.Entries = smaller.Entries[:1]
	delete(smaller.Cells, "block")

	// --- Act ---
	_, err = EmitAll(ctx, smaller, &SQLiteWriter{Path: path})

	// --- Assert ---
	require.NoError(t, err)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patterns`).Scan(&n))
	require.Equal(t, 1, n)
}
