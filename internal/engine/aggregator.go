package engine

import (
	"jobindex/internal/models"

	"gonum.org/v1/gonum/floats"
)

// SectorTotal maps display name to the summed index over a view.
// Sectors with no rows in the view are absent; callers treat absent as zero.
type SectorTotal struct {
	totals map[string]float64
	order  []string
}

// Aggregate sums index values per display name with a left-to-right fold in
// view order. An empty view yields an empty mapping.
func Aggregate(v FilteredView) SectorTotal {
	st := SectorTotal{totals: make(map[string]float64)}
	if v.Len() == 0 {
		return st
	}

	ds := v.ds
	// Array indexing by name ID instead of hashing per row.
	sums := make([]float64, len(ds.nameDict))
	seen := make([]bool, len(ds.nameDict))
	var firstSeen []int32

	for _, row := range v.rows {
		id := ds.nameIDs[row]
		if !seen[id] {
			seen[id] = true
			firstSeen = append(firstSeen, id)
		}
		sums[id] += ds.indexes[row]
	}

	st.order = make([]string, 0, len(firstSeen))
	for _, id := range firstSeen {
		name := ds.nameDict[id]
		st.totals[name] = sums[id]
		st.order = append(st.order, name)
	}
	return st
}

func (st SectorTotal) Len() int { return len(st.totals) }

// Get returns the total for a sector and whether it was present.
func (st SectorTotal) Get(name string) (float64, bool) {
	v, ok := st.totals[name]
	return v, ok
}

// Map returns a copy of the mapping.
func (st SectorTotal) Map() map[string]float64 {
	out := make(map[string]float64, len(st.totals))
	for k, v := range st.totals {
		out[k] = v
	}
	return out
}

// Names lists sectors in order of first appearance in the view.
func (st SectorTotal) Names() []string {
	return append([]string(nil), st.order...)
}

// Sum is the total mass across all sectors.
func (st SectorTotal) Sum() float64 {
	vals := make([]float64, 0, len(st.order))
	for _, name := range st.order {
		vals = append(vals, st.totals[name])
	}
	return floats.Sum(vals)
}

// Bars shapes the totals for the bar chart, in first-appearance order.
func (st SectorTotal) Bars() []models.SectorBar {
	out := make([]models.SectorBar, 0, len(st.order))
	for _, name := range st.order {
		out = append(out, models.SectorBar{DisplayName: name, Total: st.totals[name]})
	}
	return out
}
