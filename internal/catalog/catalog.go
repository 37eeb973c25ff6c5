package catalog

import (
	"sort"

	"github.com/specialistvlad/patternindex/internal/rle"
)

// Entry is the metadata record for one pattern.
type Entry struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Period   *int     `json:"period"`
	Speed    *string  `json:"speed"`
	BBoxW    int      `json:"bboxW"`
	BBoxH    int      `json:"bboxH"`
	Rule     string   `json:"rule"`
	Weight   float64  `json:"weight"`
	Source   string   `json:"source"`
	RLEFile  string   `json:"rleFile"`
}

// CellPayload is the bulk geometry of one pattern.
type CellPayload struct {
	BBoxW int        `json:"bboxW"`
	BBoxH int        `json:"bboxH"`
	Rule  string     `json:"rule"`
	Cells []rle.Cell `json:"cells"`
}

// Catalog is the result of a successful build.
type Catalog struct {
	Entries []Entry
	Cells   map[string]CellPayload
}

func newCatalog(capacity int) *Catalog {
	return &Catalog{
		Entries: make([]Entry, 0, capacity),
		Cells:   make(map[string]CellPayload, capacity),
	}
}

// Len returns the number of patterns in the catalog.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// Has reports whether id is already in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.Cells[id]
	return ok
}

func (c *Catalog) add(e Entry, p CellPayload) {
	c.Entries = append(c.Entries, e)
	c.Cells[e.ID] = p
}

// Lookup returns the entry and payload stored under id.
func (c *Catalog) Lookup(id string) (Entry, CellPayload, bool) {
	p, ok := c.Cells[id]
	if !ok {
		return Entry{}, CellPayload{}, false
	}
	for _, e := range c.Entries {
		if e.ID == id {
			return e, p, true
		}
	}
	return Entry{}, CellPayload{}, false
}

// Categories returns the distinct categories in the catalog, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, e := range c.Entries {
		seen[e.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// CellCount returns the total number of live cells across all payloads.
func (c *Catalog) CellCount() int {
	n := 0
	for _, p := range c.Cells {
		n += len(p.Cells)
	}
	return n
}
