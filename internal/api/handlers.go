package api

import (
	"net/http"

	"jobindex/internal/dashboard"
	"jobindex/internal/engine"
	"jobindex/internal/models"
	"jobindex/internal/session"
	"jobindex/web"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	dash     *dashboard.Service
	sessions *session.Store
	page     web.Page
	log      zerolog.Logger
}

func NewHandler(dash *dashboard.Service, sessions *session.Store, page web.Page, log zerolog.Logger) *Handler {
	return &Handler{
		dash:     dash,
		sessions: sessions,
		page:     page,
		log:      log.With().Str("component", "api").Logger(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.GET("/countries", h.GetCountries)
	api.GET("/countries/:code/sectors", h.GetSectors)
	api.GET("/countries/:code/series", h.GetSeries)
	api.GET("/countries/:code/totals", h.GetTotals)
	api.GET("/countries/:code/export.arrow", h.ExportArrow)

	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.DeleteSession)
	api.PUT("/sessions/:id/country", h.SetCountry)
	api.PUT("/sessions/:id/sectors", h.SetSectors)
	api.GET("/sessions/:id/dashboard", h.GetDashboard)
	api.GET("/sessions/:id/ws", h.Stream)
}

// --- HANDLERS ---

// sectorParams reads the sector selection from the query string.
// No sector parameter means every sector of ds; sector= (blank) or none=1
// is the explicit empty selection.
func sectorParams(c echo.Context, ds *engine.Dataset) []string {
	q := c.QueryParams()
	if q.Get("none") == "1" {
		return []string{}
	}
	values, ok := q["sector"]
	if !ok {
		return ds.Sectors()
	}
	return dashboard.NormalizeSectors(values)
}

func (h *Handler) Index(c echo.Context) error {
	body, err := web.Render(h.page)
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, body)
}

func (h *Handler) Health(c echo.Context) error {
	status := "loading"
	if h.dash.Ready() {
		status = "ok"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   status,
		"sessions": h.sessions.Len(),
	})
}

func (h *Handler) GetCountries(c echo.Context) error {
	countries, err := h.dash.Countries()
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, countries)
}

func (h *Handler) GetSectors(c echo.Context) error {
	ds, err := h.dash.Dataset(c.Param("code"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, ds.Sectors())
}

// series for the time-series chart
func (h *Handler) GetSeries(c echo.Context) error {
	ds, err := h.dash.Dataset(c.Param("code"))
	if err != nil {
		return httpError(err)
	}
	view := engine.Filter(ds, sectorParams(c, ds))
	return respond(c, http.StatusOK, models.SeriesResponse{
		Country: ds.Country(),
		Rows:    view.Len(),
		Points:  view.Points(),
	})
}

// totals for the bar chart
func (h *Handler) GetTotals(c echo.Context) error {
	ds, err := h.dash.Dataset(c.Param("code"))
	if err != nil {
		return httpError(err)
	}
	totals := engine.Aggregate(engine.Filter(ds, sectorParams(c, ds)))
	return respond(c, http.StatusOK, models.TotalsResponse{
		Country: ds.Country(),
		Total:   totals.Sum(),
		Bars:    totals.Bars(),
	})
}

func (h *Handler) ExportArrow(c echo.Context) error {
	ds, err := h.dash.Dataset(c.Param("code"))
	if err != nil {
		return httpError(err)
	}
	view := engine.Filter(ds, sectorParams(c, ds))

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.apache.arrow.stream")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="job_postings_by_sector_`+ds.Country()+`.arrow"`)
	res.WriteHeader(http.StatusOK)
	return engine.WriteArrow(res, view)
}
