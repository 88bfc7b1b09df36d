package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCountry(t *testing.T, dir, code, content string) {
	t.Helper()
	path := DataPath(dir, code)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestDataPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "GB", "job_postings_by_sector_GB.csv"), DataPath("data", "GB"))
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	writeCountry(t, dir, "US", "date,jobcountry,display_name,indeed_job_postings_index\n2023-01-01,US,Tech,100\n2023-01-01,US,Retail,50\n")
	writeCountry(t, dir, "GB", "date,jobcountry,display_name,indeed_job_postings_index\n2023-01-01,GB,Tech,90\n")
	// DE has no date column, FR has no file at all.
	writeCountry(t, dir, "DE", "display_name,indeed_job_postings_index\nTech,1\n")

	reg, err := LoadRegistry(dir, []string{"US", "GB", "DE", "FR"}, testLogger())
	require.NoError(t, err)

	us, err := reg.Get("US")
	require.NoError(t, err)
	assert.Equal(t, 2, us.Len())
	assert.Equal(t, "US", us.Country())

	gb, err := reg.Get("gb")
	require.NoError(t, err, "lookup should ignore case")
	assert.Equal(t, 1, gb.Len())

	_, err = reg.Get("DE")
	var dle *DataLoadError
	require.True(t, errors.As(err, &dle), "got %v", err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Equal(t, "DE", dle.Country)

	_, err = reg.Get("FR")
	require.True(t, errors.As(err, &dle))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistry_UnknownCountry(t *testing.T) {
	reg, err := NewRegistry([]string{"US"})
	require.NoError(t, err)

	for _, code := range []string{"XX", "", "AU"} {
		_, err := reg.Get(code)
		var uce *UnknownCountryError
		assert.True(t, errors.As(err, &uce), "code %q: got %v", code, err)
	}
}

func TestNewRegistry_RejectsUnsupportedCode(t *testing.T) {
	_, err := NewRegistry([]string{"US", "JP"})
	var uce *UnknownCountryError
	require.True(t, errors.As(err, &uce))
	assert.Equal(t, "JP", uce.Code)
}

func TestRegistry_Countries(t *testing.T) {
	dir := t.TempDir()
	writeCountry(t, dir, "CA", "date,display_name,indeed_job_postings_index\n2023-01-01,Tech,1\n2023-01-02,Tech,2\n")

	reg, err := LoadRegistry(dir, []string{"AU", "CA", "CA"}, testLogger())
	require.NoError(t, err)

	opts := reg.Countries()
	require.Len(t, opts, 2)

	assert.Equal(t, "AU", opts[0].Code)
	assert.Equal(t, "🇦🇺 AU", opts[0].Label)
	assert.False(t, opts[0].Loaded)
	assert.NotEmpty(t, opts[0].Error)

	assert.Equal(t, "CA", opts[1].Code)
	assert.True(t, opts[1].Loaded)
	assert.Equal(t, 2, opts[1].Rows)
	assert.Equal(t, 1, opts[1].Sectors)
	assert.Equal(t, "2023-01-01", opts[1].From)
	assert.Equal(t, "2023-01-02", opts[1].To)

	code, ok := reg.FirstLoaded()
	assert.True(t, ok)
	assert.Equal(t, "CA", code)
}

func TestRegistry_HeaderOnlyFileIsNotLoaded(t *testing.T) {
	dir := t.TempDir()
	writeCountry(t, dir, "US", "date,display_name,indeed_job_postings_index\n")
	writeCountry(t, dir, "GB", "date,display_name,indeed_job_postings_index\n2023-01-01,Tech,1\n")

	reg, err := LoadRegistry(dir, []string{"US", "GB"}, testLogger())
	require.NoError(t, err)

	_, err = reg.Get("US")
	assert.ErrorIs(t, err, ErrEmptyFile)

	opts := reg.Countries()
	require.Len(t, opts, 2)
	assert.False(t, opts[0].Loaded)
	assert.NotEmpty(t, opts[0].Error)

	code, ok := reg.FirstLoaded()
	assert.True(t, ok)
	assert.Equal(t, "GB", code)
}

func TestLookupCountry(t *testing.T) {
	c, ok := LookupCountry(" fr ")
	require.True(t, ok)
	assert.Equal(t, "FR", c.Code)
	assert.Equal(t, "🇫🇷", c.Flag)

	_, ok = LookupCountry("ES")
	assert.False(t, ok)
}
