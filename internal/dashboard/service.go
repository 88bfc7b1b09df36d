// Package dashboard turns a SelectionState into everything the page draws.
//
// Each call runs the pipeline explicitly: registry lookup, sector filter,
// per-sector aggregation, chart payloads. Nothing is cached between calls.
package dashboard

import (
	"strings"
	"sync/atomic"

	"jobindex/internal/engine"
	"jobindex/internal/models"

	"github.com/rs/zerolog"
)

// Service renders selections against the dataset registry.
type Service struct {
	registry atomic.Pointer[engine.Registry]
	log      zerolog.Logger
}

// NewService creates a service; until SetRegistry is called every lookup
// fails with engine.ErrRegistryLoading.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "dashboard").Logger(),
	}
}

// SetRegistry publishes the loaded datasets.
func (s *Service) SetRegistry(r *engine.Registry) {
	s.registry.Store(r)
}

func (s *Service) Ready() bool {
	return s.registry.Load() != nil
}

func (s *Service) Registry() (*engine.Registry, error) {
	r := s.registry.Load()
	if r == nil {
		return nil, engine.ErrRegistryLoading
	}
	return r, nil
}

func (s *Service) Countries() ([]models.CountryOption, error) {
	r, err := s.Registry()
	if err != nil {
		return nil, err
	}
	return r.Countries(), nil
}

func (s *Service) Dataset(code string) (*engine.Dataset, error) {
	r, err := s.Registry()
	if err != nil {
		return nil, err
	}
	return r.Get(code)
}

// DefaultSelection is the first loaded country with every sector selected.
// If no country loaded, the first configured one is returned with no sectors
// so that rendering reports its load error.
func (s *Service) DefaultSelection() (models.SelectionState, error) {
	r, err := s.Registry()
	if err != nil {
		return models.SelectionState{}, err
	}
	code, ok := r.FirstLoaded()
	if !ok {
		return models.SelectionState{Country: code, Sectors: []string{}}, nil
	}
	return s.SelectCountry(models.SelectionState{}, code)
}

// SelectCountry switches to code and resets the selection to all its sectors.
func (s *Service) SelectCountry(state models.SelectionState, code string) (models.SelectionState, error) {
	ds, err := s.Dataset(code)
	if err != nil {
		return state, err
	}
	return models.SelectionState{Country: ds.Country(), Sectors: ds.Sectors()}, nil
}

// SelectSectors replaces the sector set. Names the country does not have are
// kept; the filter ignores them.
func (s *Service) SelectSectors(state models.SelectionState, sectors []string) models.SelectionState {
	return models.SelectionState{Country: state.Country, Sectors: NormalizeSectors(sectors)}
}

// Render runs the pipeline for one selection. Lookup errors are returned
// as-is and nothing is drawn for that country.
func (s *Service) Render(state models.SelectionState) (*models.DashboardData, error) {
	r, err := s.Registry()
	if err != nil {
		return nil, err
	}
	ds, err := r.Get(state.Country)
	if err != nil {
		s.log.Warn().Err(err).Str("country", state.Country).Msg("Refusing to render country")
		return nil, err
	}
	country, err := r.Country(state.Country)
	if err != nil {
		return nil, err
	}

	selected := NormalizeSectors(state.Sectors)
	view := engine.Filter(ds, selected)
	totals := engine.Aggregate(view)

	points := view.Points()
	bars := totals.Bars()

	s.log.Debug().
		Str("country", country.Code).
		Int("selected", len(selected)).
		Int("rows", view.Len()).
		Msg("Rendered dashboard")

	return &models.DashboardData{
		Country:   country,
		Sectors:   ds.Sectors(),
		Selected:  selected,
		Rows:      view.Len(),
		Total:     totals.Sum(),
		Series:    points,
		Totals:    bars,
		LineChart: LineChart(points),
		BarChart:  BarChart(bars),
	}, nil
}

// NormalizeSectors trims names and drops blanks and repeats, keeping order.
// Every path that turns user input into a selection goes through it.
// The result is never nil so an empty selection stays distinguishable in JSON.
func NormalizeSectors(sectors []string) []string {
	out := make([]string, 0, len(sectors))
	seen := make(map[string]bool, len(sectors))
	for _, s := range sectors {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
