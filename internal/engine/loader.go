package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Column names in the source files.
const (
	ColDate       = "date"
	ColSectorKey  = "sector_key"
	ColName       = "display_name"
	ColIndex      = "indeed_job_postings_index"
	ColJobCountry = "jobcountry"
)

var (
	ErrEmptyFile     = errors.New("file has no data rows")
	ErrMissingColumn = errors.New("missing required column")
	ErrBadDate       = errors.New("unparsable date")
	ErrBadIndex      = errors.New("invalid job postings index")
	ErrCountryColumn = errors.New("jobcountry does not match")
)

var requiredColumns = []string{ColDate, ColName, ColIndex}

// Accepted after the YYYY-MM-DD fast path misses.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// --- 1. FIELD PARSERS ---

// fastDate parses "2021-07-25" without going through time.Parse.
func fastDate(s string) (time.Time, bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return time.Time{}, false
	}
	var n [8]int
	digits := s[0:4] + s[5:7] + s[8:10]
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
		n[i] = int(c - '0')
	}
	y := n[0]*1000 + n[1]*100 + n[2]*10 + n[3]
	m := n[4]*10 + n[5]
	d := n[6]*10 + n[7]
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 2023-02-31 into March
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// parseDate returns the calendar day (UTC midnight) of a timestamp string.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, ok := fastDate(s); ok {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

func parseIndex(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadIndex, s)
	}
	return v, nil
}

// sectorSlug derives a stable key when the file has no sector_key column.
func sectorSlug(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// --- 2. MAIN LOADER ---

// LoadColumnar reads one country's CSV file into a Dataset.
// Every failure is reported as a *DataLoadError.
func LoadColumnar(country, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Country: country, Path: path, Err: err}
	}
	defer f.Close()

	ds, err := ReadColumnar(country, f)
	if err != nil {
		var dle *DataLoadError
		if errors.As(err, &dle) {
			dle.Path = path
			return nil, dle
		}
		return nil, &DataLoadError{Country: country, Path: path, Err: err}
	}
	return ds, nil
}

// ReadColumnar parses CSV content from r. Rows may arrive in any date order.
func ReadColumnar(country string, r io.Reader) (*Dataset, error) {
	fail := func(line int, err error) (*Dataset, error) {
		return nil, &DataLoadError{Country: country, Path: "<reader>", Line: line, Err: err}
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	// A. Header
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return fail(0, ErrEmptyFile)
	}
	if err != nil {
		return fail(csvLine(err), err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return fail(1, fmt.Errorf("%w: %s", ErrMissingColumn, name))
		}
	}
	dateCol, nameCol, indexCol := cols[ColDate], cols[ColName], cols[ColIndex]
	keyCol, hasKey := cols[ColSectorKey]
	countryCol, hasCountry := cols[ColJobCountry]

	// B. Rows
	b := newDatasetBuilder(country, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(csvLine(err), err)
		}
		line, _ := cr.FieldPos(0)

		date, err := parseDate(rec[dateCol])
		if err != nil {
			return fail(line, err)
		}
		value, err := parseIndex(rec[indexCol])
		if err != nil {
			return fail(line, err)
		}
		if hasCountry && country != "" && rec[countryCol] != "" && !strings.EqualFold(rec[countryCol], country) {
			return fail(line, fmt.Errorf("%w: %q", ErrCountryColumn, rec[countryCol]))
		}

		name := strings.TrimSpace(rec[nameCol])
		key := ""
		if hasKey {
			key = strings.TrimSpace(rec[keyCol])
		}
		if key == "" {
			key = sectorSlug(name)
		}
		b.append(date, key, name, value)
	}
	if b.ds.Len() == 0 {
		return fail(1, ErrEmptyFile)
	}

	return b.build(), nil
}

func csvLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}
