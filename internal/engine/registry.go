package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jobindex/internal/models"

	"github.com/rs/zerolog"
)

// Country is one entry of the fixed country set.
type Country struct {
	Code string
	Flag string
	Name string
}

// Label is what the country picker shows.
func (c Country) Label() string { return c.Flag + " " + c.Code }

// SupportedCountries is the fixed set, in picker order.
var SupportedCountries = []Country{
	{Code: "US", Flag: "🇺🇸", Name: "United States"},
	{Code: "GB", Flag: "🇬🇧", Name: "United Kingdom"},
	{Code: "FR", Flag: "🇫🇷", Name: "France"},
	{Code: "DE", Flag: "🇩🇪", Name: "Germany"},
	{Code: "CA", Flag: "🇨🇦", Name: "Canada"},
	{Code: "AU", Flag: "🇦🇺", Name: "Australia"},
}

// LookupCountry finds a supported country, ignoring case.
func LookupCountry(code string) (Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range SupportedCountries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// DataPath is where a country's file lives under dataDir.
func DataPath(dataDir, code string) string {
	return filepath.Join(dataDir, code, fmt.Sprintf("job_postings_by_sector_%s.csv", code))
}

// Registry maps country codes to their datasets. It is filled once and then
// only read, so it needs no locking.
type Registry struct {
	countries []Country
	datasets  map[string]*Dataset
	failures  map[string]error
}

// NewRegistry validates codes against the supported set.
func NewRegistry(codes []string) (*Registry, error) {
	r := &Registry{
		datasets: make(map[string]*Dataset, len(codes)),
		failures: make(map[string]error),
	}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		c, ok := LookupCountry(code)
		if !ok {
			return nil, &UnknownCountryError{Code: code}
		}
		if seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		r.countries = append(r.countries, c)
	}
	return r, nil
}

// LoadRegistry reads every configured country from dataDir in parallel.
// A country whose file fails to load is kept with its error and no dataset.
func LoadRegistry(dataDir string, codes []string, log zerolog.Logger) (*Registry, error) {
	r, err := NewRegistry(codes)
	if err != nil {
		return nil, err
	}

	type result struct {
		code string
		ds   *Dataset
		err  error
	}
	results := make([]result, len(r.countries))

	var wg sync.WaitGroup
	for i, c := range r.countries {
		wg.Add(1)
		go func(idx int, code string) {
			defer wg.Done()
			t0 := time.Now()
			path := DataPath(dataDir, code)
			ds, err := LoadColumnar(code, path)
			results[idx] = result{code: code, ds: ds, err: err}
			if err != nil {
				log.Error().Err(err).Str("country", code).Str("path", path).Msg("Dataset failed to load")
				return
			}
			log.Info().
				Str("country", code).
				Int("rows", ds.Len()).
				Int("sectors", len(ds.nameDict)).
				Dur("took", time.Since(t0)).
				Msg("Dataset loaded")
		}(i, c.Code)
	}
	wg.Wait()

	for _, res := range results {
		r.register(res.code, res.ds, res.err)
	}
	return r, nil
}

// register must only be called before the registry is shared.
func (r *Registry) register(code string, ds *Dataset, err error) {
	if err != nil {
		r.failures[code] = err
		delete(r.datasets, code)
		return
	}
	r.datasets[code] = ds
	delete(r.failures, code)
}

// Get returns the dataset for code, an *UnknownCountryError for codes outside
// the configured set, or the *DataLoadError recorded at startup.
func (r *Registry) Get(code string) (*Dataset, error) {
	c, ok := LookupCountry(code)
	if !ok || !r.configured(c.Code) {
		return nil, &UnknownCountryError{Code: code}
	}
	if err, failed := r.failures[c.Code]; failed {
		return nil, err
	}
	ds, ok := r.datasets[c.Code]
	if !ok {
		return nil, &DataLoadError{Country: c.Code, Err: fmt.Errorf("no dataset registered")}
	}
	return ds, nil
}

func (r *Registry) configured(code string) bool {
	for _, c := range r.countries {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Countries lists the configured countries in picker order with load status.
func (r *Registry) Countries() []models.CountryOption {
	out := make([]models.CountryOption, 0, len(r.countries))
	for _, c := range r.countries {
		out = append(out, r.option(c))
	}
	return out
}

// Country returns the picker entry for a configured code.
func (r *Registry) Country(code string) (models.CountryOption, error) {
	c, ok := LookupCountry(code)
	if !ok || !r.configured(c.Code) {
		return models.CountryOption{}, &UnknownCountryError{Code: code}
	}
	return r.option(c), nil
}

// FirstLoaded is the default country for a new session.
func (r *Registry) FirstLoaded() (string, bool) {
	for _, c := range r.countries {
		if _, ok := r.datasets[c.Code]; ok {
			return c.Code, true
		}
	}
	if len(r.countries) > 0 {
		return r.countries[0].Code, false
	}
	return "", false
}

func (r *Registry) option(c Country) models.CountryOption {
	opt := models.CountryOption{
		Code:  c.Code,
		Flag:  c.Flag,
		Name:  c.Name,
		Label: c.Label(),
	}
	if err, failed := r.failures[c.Code]; failed {
		opt.Error = err.Error()
		return opt
	}
	if ds, ok := r.datasets[c.Code]; ok {
		opt.Loaded = true
		opt.Rows = ds.Len()
		opt.Sectors = len(ds.nameDict)
		if first, last := ds.DateRange(); ds.Len() > 0 {
			opt.From = first.Format("2006-01-02")
			opt.To = last.Format("2006-01-02")
		}
	}
	return opt
}
