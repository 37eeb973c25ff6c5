package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/patternindex/internal/rle"
	"github.com/specialistvlad/patternindex/internal/source"
)

func doc(category, id, text string) source.Document {
	rel := "rle/" + category + "/" + id + ".rle"
	return source.Document{
		Path:     "/patterns/" + rel,
		RelPath:  rel,
		ID:       id,
		Category: category,
		Text:     text,
	}
}

func TestBuilder_Build(t *testing.T) {
	// --- Arrange ---
	docs := []source.Document{
		doc("spaceships", "lwss", "#C c/2 orthogonal period 4\nx = 5, y = 4\nbo2bo$o4b$o3bo$4o!"),
		doc("gliders", "glider", "x = 3, y = 3\n3o$2bo$3o!"),
	}
	b := NewBuilder(Config{SourceBaseURL: DefaultSourceBaseURL})

	// --- Act ---
	cat, err := b.Build(context.Background(), docs)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	period := 4
	speed := "c/2"
	expected := []Entry{
		{
			ID:       "glider",
			Name:     "Glider",
			Category: "gliders",
			Tags:     []string{"glider", "gliders"},
			BBoxW:    3,
			BBoxH:    3,
			Rule:     "B3/S23",
			Weight:   1.2,
			Source:   "https://conwaylife.com/patterns/glider.rle",
			RLEFile:  "rle/gliders/glider.rle",
		},
		{
			ID:       "lwss",
			Name:     "Lwss",
			Category: "spaceships",
			Tags:     []string{"lwss", "spaceships"},
			Period:   &period,
			Speed:    &speed,
			BBoxW:    5,
			BBoxH:    4,
			Rule:     "B3/S23",
			Weight:   1.0,
			Source:   "https://conwaylife.com/patterns/lwss.rle",
			RLEFile:  "rle/spaceships/lwss.rle",
		},
	}
	if diff := cmp.Diff(expected, cat.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	glider, ok := cat.Cells["glider"]
	require.True(t, ok)
	require.Equal(t, 3, glider.BBoxW)
	require.Equal(t, 3, glider.BBoxH)
	require.Equal(t, "B3/S23", glider.Rule)
	require.Len(t, glider.Cells, 7)
	require.Len(t, cat.Cells["lwss"].Cells, 9)
	require.Equal(t, 16, cat.CellCount())
}

func TestBuilder_EveryEntryHasPayload(t *testing.T) {
	docs := []source.Document{
		doc("oscillators", "blinker", "3o!"),
		doc("still_lifes", "block", "2o$2o!"),
		doc("misc", "empty", "x = 4, y = 4\n"),
	}

	cat, err := NewBuilder(Config{}).Build(context.Background(), docs)

	require.NoError(t, err)
	require.Len(t, cat.Cells, len(cat.Entries))
	for _, e := range cat.Entries {
		p, ok := cat.Cells[e.ID]
		require.True(t, ok, "missing payload for %s", e.ID)
		require.Equal(t, e.BBoxW, p.BBoxW)
		require.Equal(t, e.BBoxH, p.BBoxH)
		require.Equal(t, e.Rule, p.Rule)
		require.NotNil(t, p.Cells, "payload cells must encode as a list")
		for _, c := range p.Cells {
			require.Less(t, c.X, e.BBoxW)
			require.Less(t, c.Y, e.BBoxH)
		}
	}
}

func TestBuilder_DiscoveryOrder(t *testing.T) {
	docs := []source.Document{
		doc("spaceships", "lwss", "o!"),
		doc("guns", "gosper_glider_gun", "o!"),
		doc("gliders", "glider", "o!"),
	}

	cat, err := NewBuilder(Config{}).Build(context.Background(), docs)

	require.NoError(t, err)
	var ids []string
	for _, e := range cat.Entries {
		ids = append(ids, e.ID)
	}
	require.Equal(t, []string{"glider", "gosper_glider_gun", "lwss"}, ids)
}

func TestBuilder_DuplicateIdentifier(t *testing.T) {
	// --- Arrange ---
	docs := []source.Document{
		doc("gliders", "glider", "3o$2bo$3o!"),
		doc("spaceships", "glider", "3o$2bo$3o!"),
	}

	// --- Act ---
	cat, err := NewBuilder(Config{}).Build(context.Background(), docs)

	// --- Assert ---
	require.Nil(t, cat, "no catalog may be produced")
	require.True(t, errors.Is(err, ErrDuplicateIdentifier))

	var dup *DuplicateIdentifierError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "glider", dup.ID)
	require.Equal(t, "/patterns/rle/spaceships/glider.rle", dup.Path)
	require.Contains(t, err.Error(), "duplicate pattern id 'glider'")
}

func TestBuilder_DuplicateCheckedBeforeDecode(t *testing.T) {
	docs := []source.Document{
		doc("a", "same", "o!"),
		doc("b", "same", "9999o!"),
	}

	_, err := NewBuilder(Config{HardCellLimit: 10}).Build(context.Background(), docs)

	require.ErrorIs(t, err, ErrDuplicateIdentifier)
	require.NotErrorIs(t, err, rle.ErrFormatTooLarge)
}

func TestBuilder_FormatTooLargeAbortsBuild(t *testing.T) {
	docs := []source.Document{
		doc("gliders", "glider", "3o$2bo$3o!"),
		doc("methuselahs", "huge", "100o!"),
	}

	cat, err := NewBuilder(Config{HardCellLimit: 50}).Build(context.Background(), docs)

	require.Nil(t, cat)
	require.ErrorIs(t, err, rle.ErrFormatTooLarge)

	var tooLarge *rle.FormatTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	require.Equal(t, "huge", tooLarge.ID)
	require.Equal(t, 51, tooLarge.Count)
}

func TestBuilder_Weights(t *testing.T) {
	docs := []source.Document{
		doc("guns", "gun", "o!"),
		doc("puffers", "puffer", "o!"),
		doc("still_lifes", "block", "o!"),
	}
	weights := DefaultWeights().Merge(map[string]float64{"puffers": 0.7, "guns": 0.5})

	cat, err := NewBuilder(Config{Weights: weights}).Build(context.Background(), docs)

	require.NoError(t, err)
	got := map[string]float64{}
	for _, e := range cat.Entries {
		got[e.ID] = e.Weight
	}
	require.Equal(t, map[string]float64{"gun": 0.5, "puffer": 0.7, "block": 0.4}, got)
}

func TestBuilder_SourceURL(t *testing.T) {
	testCases := []struct {
		name   string
		base   string
		expect string
	}{
		{name: "no base", base: "", expect: ""},
		{name: "trailing slash added", base: "https://example.org/rle", expect: "https://example.org/rle/glider.rle"},
		{name: "base kept", base: "https://example.org/rle/", expect: "https://example.org/rle/glider.rle"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cat, err := NewBuilder(Config{SourceBaseURL: tc.base}).Build(context.Background(), []source.Document{doc("gliders", "glider", "o!")})
			require.NoError(t, err)
			require.Equal(t, tc.expect, cat.Entries[0].Source)
		})
	}
}

func TestBuilder_Reproducible(t *testing.T) {
	docs := []source.Document{
		doc("oscillators", "pulsar", "#C period 3\nx = 13, y = 13\n2b3o3b3o2b2$o4bobo4bo$o4bobo4bo!"),
		doc("gliders", "glider", "bo$2bo$3o!"),
	}
	b := NewBuilder(Config{})

	first, err := b.Build(context.Background(), docs)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), []source.Document{docs[1], docs[0]})
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestBuilder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(Config{}).Build(ctx, []source.Document{doc("gliders", "glider", "o!")})

	require.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_Empty(t *testing.T) {
	cat, err := NewBuilder(Config{}).Build(context.Background(), nil)

	require.NoError(t, err)
	require.Zero(t, cat.Len())
	require.Empty(t, cat.Cells)
}

func TestCatalog_LookupAndCategories(t *testing.T) {
	docs := []source.Document{
		doc("gliders", "glider", "o!"),
		doc("guns", "gun", "o!"),
		doc("gliders", "other", "o!"),
	}
	cat, err := NewBuilder(Config{}).Build(context.Background(), docs)
	require.NoError(t, err)

	e, p, ok := cat.Lookup("gun")
	require.True(t, ok)
	require.Equal(t, "guns", e.Category)
	require.Len(t, p.Cells, 1)

	_, _, ok = cat.Lookup("missing")
	require.False(t, ok)

	require.Equal(t, []string{"gliders", "guns"}, cat.Categories())
}
