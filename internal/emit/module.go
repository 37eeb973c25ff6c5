package emit

import (
	"bytes"
	"context"
	"fmt"

	"github.com/specialistvlad/patternindex/internal/catalog"
)

// ModuleWriter writes the catalog as a QML JavaScript library exposing
// patternIndex and patternCellsById.
type ModuleWriter struct {
	Path        string
	GeneratedBy string
}

// Name implements Emitter.
func (w *ModuleWriter) Name() string { return "module" }

// Stage implements Emitter.
func (w *ModuleWriter) Stage(ctx context.Context, cat *catalog.Catalog) (*StagedFile, error) {
	data, err := RenderModule(cat, w.GeneratedBy)
	if err != nil {
		return nil, err
	}
	return stageBytes(w.Path, data, Result{
		Emitter: w.Name(),
		Count:   len(cat.Cells),
		Noun:    "compiled pattern payloads",
	})
}

// RenderModule renders the module source for cat.
func RenderModule(cat *catalog.Catalog, generatedBy string) ([]byte, error) {
	index := NewIndex(cat, generatedBy)
	indexJSON, err := encodeJSON(index, "")
	if err != nil {
		return nil, fmt.Errorf("encoding pattern index: %w", err)
	}

	cells := cat.Cells
	if cells == nil {
		cells = map[string]catalog.CellPayload{}
	}
	cellsJSON, err := encodeJSON(cells, "")
	if err != nil {
		return nil, fmt.Errorf("encoding pattern cells: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/* Auto-generated by %s. Do not edit by hand. */\n", index.GeneratedBy)
	buf.WriteString(".pragma library\n\n")
	buf.WriteString("var patternIndex = ")
	buf.Write(indexJSON)
	buf.WriteString(";\n\nvar patternCellsById = ")
	buf.Write(cellsJSON)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}
