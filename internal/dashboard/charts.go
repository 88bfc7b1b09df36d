package dashboard

import "jobindex/internal/models"

const (
	vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"
	chartWidth     = 1000
	chartHeight    = 500

	LineChartTitle = "Indeed Job Postings Index by Sector Over Time"
	BarChartTitle  = "Total Job Posts by Sector"
)

// LineChart plots the filtered view: one line per sector. Clicking a line
// highlights it and greys out the rest; nothing is highlighted until a click.
func LineChart(points []models.SeriesPoint) models.ChartSpec {
	return models.ChartSpec{
		"$schema": vegaLiteSchema,
		"title":   LineChartTitle,
		"width":   chartWidth,
		"height":  chartHeight,
		"data":    map[string]any{"values": points},
		"mark":    "line",
		"params": []any{
			map[string]any{
				"name":   "highlight",
				"select": map[string]any{"type": "point", "fields": []string{"display_name"}, "clear": "dblclick"},
			},
			map[string]any{
				"name":   "zoom",
				"select": "interval",
				"bind":   "scales",
			},
		},
		"encoding": map[string]any{
			"x": map[string]any{"field": "date", "type": "temporal"},
			"y": map[string]any{"field": "indeed_job_postings_index", "type": "quantitative"},
			"color": map[string]any{
				"condition": map[string]any{"param": "highlight", "field": "display_name", "type": "nominal", "empty": false},
				"value":     "lightgray",
			},
			"opacity": map[string]any{
				"condition": map[string]any{"param": "highlight", "value": 1, "empty": false},
				"value":     0.2,
			},
			"tooltip": []any{
				map[string]any{"field": "date", "type": "temporal", "title": "Date"},
				map[string]any{"field": "indeed_job_postings_index", "type": "quantitative", "title": "Job Posts"},
				map[string]any{"field": "display_name", "type": "nominal", "title": "Sector"},
			},
		},
	}
}

// BarChart draws pre-aggregated totals; Vega does no summing of its own.
func BarChart(bars []models.SectorBar) models.ChartSpec {
	return models.ChartSpec{
		"$schema": vegaLiteSchema,
		"title":   BarChartTitle,
		"width":   chartWidth,
		"height":  chartHeight,
		"data":    map[string]any{"values": bars},
		"mark":    "bar",
		"encoding": map[string]any{
			"x":     map[string]any{"field": "display_name", "type": "nominal", "sort": nil, "title": "display_name"},
			"y":     map[string]any{"field": "total", "type": "quantitative", "title": "sum(indeed_job_postings_index)"},
			"color": map[string]any{"field": "display_name", "type": "nominal"},
			"tooltip": []any{
				map[string]any{"field": "display_name", "type": "nominal", "title": "Sector"},
				map[string]any{"field": "total", "type": "quantitative", "title": "Total Job Posts"},
			},
		},
	}
}
