package engine

import (
	"testing"

	"jobindex/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_SelectsMatchingRowsInOrder(t *testing.T) {
	ds := sampleDataset()

	view := Filter(ds, []string{"Tech"})

	require.Equal(t, 2, view.Len())
	recs := view.Records()
	assert.Equal(t, day(2023, 1, 1), recs[0].Date)
	assert.Equal(t, 100.0, recs[0].IndexValue)
	assert.Equal(t, day(2023, 2, 1), recs[1].Date)
	assert.Equal(t, 120.0, recs[1].IndexValue)
}

func TestFilter_EmptySelectionIsEmptyView(t *testing.T) {
	ds := sampleDataset()

	assert.Equal(t, 0, Filter(ds, nil).Len())
	assert.Equal(t, 0, Filter(ds, []string{}).Len())
	assert.Empty(t, Filter(ds, nil).Records())
}

func TestFilter_UnknownNamesIgnored(t *testing.T) {
	ds := sampleDataset()

	assert.Equal(t, 0, Filter(ds, []string{"Nonexistent"}).Len())

	view := Filter(ds, []string{"Nonexistent", "Retail"})
	require.Equal(t, 1, view.Len())
	assert.Equal(t, "Retail", view.Record(0).DisplayName)
}

func TestFilter_AllSectorsReproducesDataset(t *testing.T) {
	ds := sampleDataset()

	view := Filter(ds, ds.Sectors())

	assert.Equal(t, ds.Records(), view.Records())
}

func TestFilter_Idempotent(t *testing.T) {
	ds := sampleDataset()
	for _, sel := range [][]string{nil, {"Tech"}, {"Retail", "Tech"}, {"Nope"}} {
		once := Filter(ds, sel)
		twice := once.Filter(sel)
		assert.Equal(t, once.Records(), twice.Records(), "selection %v", sel)
	}
}

func TestFilter_ExactMembership(t *testing.T) {
	// Unsorted dates and interleaved sectors: no reliance on order.
	ds := NewDataset("DE", []models.JobPostingRecord{
		{Date: day(2023, 3, 1), DisplayName: "B", IndexValue: 3},
		{Date: day(2023, 1, 1), DisplayName: "A", IndexValue: 1},
		{Date: day(2023, 2, 1), DisplayName: "C", IndexValue: 2},
		{Date: day(2022, 12, 1), DisplayName: "A", IndexValue: 4},
		{Date: day(2023, 4, 1), DisplayName: "B", IndexValue: 5},
	})
	sel := []string{"A", "B"}

	var want []models.JobPostingRecord
	for _, r := range ds.Records() {
		if r.DisplayName == "A" || r.DisplayName == "B" {
			want = append(want, r)
		}
	}

	assert.Equal(t, want, Filter(ds, sel).Records())
}

func TestFilter_DuplicateSelectionNames(t *testing.T) {
	ds := sampleDataset()
	assert.Equal(t, 2, Filter(ds, []string{"Tech", "Tech"}).Len())
}

func TestFilter_NilDataset(t *testing.T) {
	view := Filter(nil, []string{"Tech"})
	assert.Equal(t, 0, view.Len())
	assert.Equal(t, 0, Aggregate(view).Len())
}

func TestFilteredView_Points(t *testing.T) {
	points := Filter(sampleDataset(), []string{"Retail"}).Points()

	require.Len(t, points, 1)
	assert.Equal(t, models.SeriesPoint{Date: "2023-01-01", DisplayName: "Retail", IndexValue: 50}, points[0])
}

func TestDataset_DateRangeUnsorted(t *testing.T) {
	ds := NewDataset("CA", []models.JobPostingRecord{
		{Date: day(2023, 5, 1), DisplayName: "A"},
		{Date: day(2021, 5, 1), DisplayName: "A"},
		{Date: day(2022, 5, 1), DisplayName: "A"},
	})
	first, last := ds.DateRange()
	assert.Equal(t, day(2021, 5, 1), first)
	assert.Equal(t, day(2023, 5, 1), last)
}
