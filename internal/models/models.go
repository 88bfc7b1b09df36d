package models

import "time"

// JobPostingRecord is one row of a country's dataset.
type JobPostingRecord struct {
	Date        time.Time `json:"date"`
	SectorKey   string    `json:"sector_key"`
	DisplayName string    `json:"display_name"`
	IndexValue  float64   `json:"indeed_job_postings_index"`
}

// SelectionState is a user's current country and sector choice.
type SelectionState struct {
	Country string   `json:"country"`
	Sectors []string `json:"sectors"`
}

// Clone returns a copy that shares no memory with s.
func (s SelectionState) Clone() SelectionState {
	out := SelectionState{Country: s.Country}
	if s.Sectors != nil {
		out.Sectors = append(make([]string, 0, len(s.Sectors)), s.Sectors...)
	}
	return out
}

type CountryOption struct {
	Code    string `json:"code"`
	Flag    string `json:"flag"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Loaded  bool   `json:"loaded"`
	Rows    int    `json:"rows,omitempty"`
	Sectors int    `json:"sectors,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SeriesPoint feeds the time-series chart: x = date, y = index, series = display name.
type SeriesPoint struct {
	Date        string  `json:"date"`
	DisplayName string  `json:"display_name"`
	IndexValue  float64 `json:"indeed_job_postings_index"`
}

// SectorBar feeds the bar chart.
type SectorBar struct {
	DisplayName string  `json:"display_name"`
	Total       float64 `json:"total"`
}

type SeriesResponse struct {
	Country string        `json:"country"`
	Rows    int           `json:"rows"`
	Points  []SeriesPoint `json:"points"`
}

type TotalsResponse struct {
	Country string      `json:"country"`
	Total   float64     `json:"total"`
	Bars    []SectorBar `json:"bars"`
}

// ChartSpec is a Vega-Lite document.
type ChartSpec map[string]any

// DashboardData is everything the page needs to draw one selection.
type DashboardData struct {
	Country   CountryOption `json:"country"`
	Sectors   []string      `json:"sectors"`
	Selected  []string      `json:"selected"`
	Rows      int           `json:"rows"`
	Total     float64       `json:"total"`
	Series    []SeriesPoint `json:"series"`
	Totals    []SectorBar   `json:"totals"`
	LineChart ChartSpec     `json:"line_chart"`
	BarChart  ChartSpec     `json:"bar_chart"`
}
