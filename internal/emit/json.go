package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/specialistvlad/patternindex/internal/catalog"
)

// Index is the persisted pattern index record.
type Index struct {
	FormatVersion int             `json:"formatVersion"`
	GeneratedBy   string          `json:"generatedBy"`
	PatternCount  int             `json:"patternCount"`
	Patterns      []catalog.Entry `json:"patterns"`
}

// NewIndex wraps the catalog entries in an Index record.
func NewIndex(cat *catalog.Catalog, generatedBy string) Index {
	if generatedBy == "" {
		generatedBy = DefaultGeneratedBy
	}
	entries := cat.Entries
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return Index{
		FormatVersion: FormatVersion,
		GeneratedBy:   generatedBy,
		PatternCount:  len(entries),
		Patterns:      entries,
	}
}

// IndexWriter writes the pattern index as indented JSON.
type IndexWriter struct {
	Path        string
	GeneratedBy string
}

// Name implements Emitter.
func (w *IndexWriter) Name() string { return "index" }

// Stage implements Emitter.
func (w *IndexWriter) Stage(ctx context.Context, cat *catalog.Catalog) (*StagedFile, error) {
	data, err := encodeJSON(NewIndex(cat, w.GeneratedBy), "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding index: %w", err)
	}
	data = append(data, '\n')
	return stageBytes(w.Path, data, Result{Emitter: w.Name(), Count: cat.Len(), Noun: "patterns"})
}

// encodeJSON marshals v without HTML escaping and with every non-ASCII rune
// written as a \u escape, so the output is plain ASCII. An empty indent
// produces compact output.
func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites multi-byte UTF-8 sequences as JSON \u escapes.
// Outside string literals JSON is ASCII already, so a byte-level pass is safe.
func escapeNonASCII(data []byte) []byte {
	if isASCII(data) {
		return data
	}
	out := make([]byte, 0, len(data)+len(data)/4)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = appendEscape(out, r1)
			out = appendEscape(out, r2)
			continue
		}
		out = appendEscape(out, r)
	}
	return out
}

func appendEscape(out []byte, r rune) []byte {
	s := strconv.FormatInt(int64(r), 16)
	out = append(out, '\\', 'u')
	for i := len(s); i < 4; i++ {
		out = append(out, '0')
	}
	return append(out, s...)
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
