package catalog

import "sort"

// DefaultWeight is assigned to categories missing from the weight table.
const DefaultWeight = 1.0

var defaultWeights = map[string]float64{
	"gliders":     1.2,
	"spaceships":  1.0,
	"methuselahs": 0.9,
	"oscillators": 0.8,
	"guns":        0.6,
	"still_lifes": 0.4,
}

// WeightTable maps a category to its default selection weight.
type WeightTable map[string]float64

// DefaultWeights returns a fresh copy of the built-in table.
func DefaultWeights() WeightTable {
	return WeightTable(nil).Merge(defaultWeights)
}

// Weight returns the weight for category, or DefaultWeight.
func (w WeightTable) Weight(category string) float64 {
	if v, ok := w[category]; ok {
		return v
	}
	return DefaultWeight
}

// Merge returns a new table holding w overlaid with overrides.
func (w WeightTable) Merge(overrides map[string]float64) WeightTable {
	out := make(WeightTable, len(w)+len(overrides))
	for k, v := range w {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Categories returns the table's categories, sorted.
func (w WeightTable) Categories() []string {
	out := make([]string, 0, len(w))
	for k := range w {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
