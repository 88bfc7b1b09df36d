package api

import (
	"net/http"

	"jobindex/internal/models"
	"jobindex/internal/session"

	"github.com/labstack/echo/v4"
)

type countryRequest struct {
	Country string `json:"country"`
}

type sectorsRequest struct {
	Sectors []string `json:"sectors"`
}

func (h *Handler) CreateSession(c echo.Context) error {
	state, err := h.dash.DefaultSelection()
	if err != nil {
		return httpError(err)
	}
	sess := h.sessions.Create(state)
	return respond(c, http.StatusCreated, sess)
}

func (h *Handler) GetSession(c echo.Context) error {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, sess)
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetCountry(c echo.Context) error {
	var req countryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Country == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "country is required")
	}
	sess, err := h.changeCountry(c.Param("id"), req.Country)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, sess)
}

func (h *Handler) SetSectors(c echo.Context) error {
	var req sectorsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	sess, err := h.changeSectors(c.Param("id"), req.Sectors)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, sess)
}

// GetDashboard renders the session's current selection.
func (h *Handler) GetDashboard(c echo.Context) error {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	data, err := h.dash.Render(sess.State)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, data)
}

func (h *Handler) changeCountry(id, code string) (session.Session, error) {
	return h.sessions.Update(id, func(st models.SelectionState) (models.SelectionState, error) {
		return h.dash.SelectCountry(st, code)
	})
}

func (h *Handler) changeSectors(id string, sectors []string) (session.Session, error) {
	return h.sessions.Update(id, func(st models.SelectionState) (models.SelectionState, error) {
		return h.dash.SelectSectors(st, sectors), nil
	})
}
