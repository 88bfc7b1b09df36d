package engine

import (
	"time"

	"jobindex/internal/models"
)

// Dataset holds one country's postings in Struct-of-Arrays format.
// It is never mutated after load, so any number of readers may share it.
type Dataset struct {
	country string

	// Data Columns (Flat Arrays)
	dates   []time.Time
	indexes []float64

	// Dictionary Encoded IDs (0..N)
	keyIDs  []int32
	nameIDs []int32

	// Dictionaries (ID -> String), in order of first appearance
	keyDict  []string
	nameDict []string

	nameLookup map[string]int32
}

// NewDataset builds a Dataset from records, keeping their order.
func NewDataset(country string, records []models.JobPostingRecord) *Dataset {
	b := newDatasetBuilder(country, len(records))
	for _, r := range records {
		b.append(r.Date, r.SectorKey, r.DisplayName, r.IndexValue)
	}
	return b.build()
}

func (ds *Dataset) Country() string { return ds.country }

func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.indexes)
}

// Record materializes row i.
func (ds *Dataset) Record(i int) models.JobPostingRecord {
	return models.JobPostingRecord{
		Date:        ds.dates[i],
		SectorKey:   ds.keyDict[ds.keyIDs[i]],
		DisplayName: ds.nameDict[ds.nameIDs[i]],
		IndexValue:  ds.indexes[i],
	}
}

func (ds *Dataset) Records() []models.JobPostingRecord {
	out := make([]models.JobPostingRecord, ds.Len())
	for i := range out {
		out[i] = ds.Record(i)
	}
	return out
}

// Sectors returns the distinct display names in order of first appearance.
func (ds *Dataset) Sectors() []string {
	if ds == nil {
		return nil
	}
	return append([]string(nil), ds.nameDict...)
}

// DateRange returns the earliest and latest dates without assuming sorted rows.
func (ds *Dataset) DateRange() (first, last time.Time) {
	for i, d := range ds.dates {
		if i == 0 || d.Before(first) {
			first = d
		}
		if i == 0 || d.After(last) {
			last = d
		}
	}
	return first, last
}

type datasetBuilder struct {
	ds        *Dataset
	keyLookup map[string]int32
}

func newDatasetBuilder(country string, capacity int) *datasetBuilder {
	return &datasetBuilder{
		ds: &Dataset{
			country:    country,
			dates:      make([]time.Time, 0, capacity),
			indexes:    make([]float64, 0, capacity),
			keyIDs:     make([]int32, 0, capacity),
			nameIDs:    make([]int32, 0, capacity),
			nameLookup: make(map[string]int32),
		},
		keyLookup: make(map[string]int32),
	}
}

func (b *datasetBuilder) append(date time.Time, key, name string, value float64) {
	ds := b.ds
	ds.dates = append(ds.dates, date)
	ds.indexes = append(ds.indexes, value)
	ds.keyIDs = append(ds.keyIDs, intern(key, b.keyLookup, &ds.keyDict))
	ds.nameIDs = append(ds.nameIDs, intern(name, ds.nameLookup, &ds.nameDict))
}

func (b *datasetBuilder) build() *Dataset {
	return b.ds
}

func intern(s string, lookup map[string]int32, dict *[]string) int32 {
	if id, ok := lookup[s]; ok {
		return id
	}
	id := int32(len(*dict))
	*dict = append(*dict, s)
	lookup[s] = id
	return id
}
