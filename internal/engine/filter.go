package engine

import "jobindex/internal/models"

// FilteredView is the subset of a Dataset whose display name is selected.
// It keeps row positions instead of copying records.
type FilteredView struct {
	ds   *Dataset
	rows []int32
}

// Filter returns the rows of ds whose display name is in sectors, in source
// order. An empty selection yields an empty view and unknown names are ignored.
func Filter(ds *Dataset, sectors []string) FilteredView {
	view := FilteredView{ds: ds}
	wanted, hit := selectionMask(ds, sectors)
	if !hit {
		return view
	}
	for i, id := range ds.nameIDs {
		if wanted[id] {
			view.rows = append(view.rows, int32(i))
		}
	}
	return view
}

// Filter narrows the view further. Filtering twice with the same selection
// returns the same rows.
func (v FilteredView) Filter(sectors []string) FilteredView {
	out := FilteredView{ds: v.ds}
	wanted, hit := selectionMask(v.ds, sectors)
	if !hit {
		return out
	}
	for _, row := range v.rows {
		if wanted[v.ds.nameIDs[row]] {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// selectionMask turns names into a lookup indexed by name ID.
func selectionMask(ds *Dataset, sectors []string) ([]bool, bool) {
	if ds == nil || len(sectors) == 0 {
		return nil, false
	}
	wanted := make([]bool, len(ds.nameDict))
	hit := false
	for _, s := range sectors {
		if id, ok := ds.nameLookup[s]; ok {
			wanted[id] = true
			hit = true
		}
	}
	return wanted, hit
}

func (v FilteredView) Dataset() *Dataset { return v.ds }

func (v FilteredView) Len() int { return len(v.rows) }

func (v FilteredView) Record(i int) models.JobPostingRecord {
	return v.ds.Record(int(v.rows[i]))
}

func (v FilteredView) Records() []models.JobPostingRecord {
	out := make([]models.JobPostingRecord, len(v.rows))
	for i, row := range v.rows {
		out[i] = v.ds.Record(int(row))
	}
	return out
}

// Points shapes the view for the time-series chart.
func (v FilteredView) Points() []models.SeriesPoint {
	out := make([]models.SeriesPoint, len(v.rows))
	for i, row := range v.rows {
		out[i] = models.SeriesPoint{
			Date:        v.ds.dates[row].Format("2006-01-02"),
			DisplayName: v.ds.nameDict[v.ds.nameIDs[row]],
			IndexValue:  v.ds.indexes[row],
		}
	}
	return out
}
