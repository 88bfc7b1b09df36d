package api

import (
	"context"
	"errors"
	"time"

	"jobindex/internal/models"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"nhooyr.io/websocket"
)

const streamWriteTimeout = 10 * time.Second

// StreamRequest is one selection change sent over the websocket. Country
// takes precedence; a message with neither field just re-renders.
type StreamRequest struct {
	Country string    `json:"country,omitempty"`
	Sectors *[]string `json:"sectors,omitempty"`
}

// StreamResponse carries either a fresh dashboard or the error that stopped it.
type StreamResponse struct {
	Dashboard *models.DashboardData `json:"dashboard,omitempty"`
	State     models.SelectionState `json:"state"`
	Error     string                `json:"error,omitempty"`
}

// Stream keeps a websocket open for a session: the current dashboard is sent
// on connect, then once per selection change received.
func (h *Handler) Stream(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.sessions.Get(id); err != nil {
		return httpError(err)
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Str("session", id).Msg("Websocket upgrade failed")
		return nil
	}
	defer conn.CloseNow()

	ctx := c.Request().Context()
	log := h.log.With().Str("session", id).Logger()
	log.Debug().Msg("Stream opened")

	if err := h.push(ctx, conn, id); err != nil {
		log.Debug().Err(err).Msg("Stream closed")
		return nil
	}

	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				log.Debug().Err(err).Msg("Stream read failed")
			}
			return nil
		}
		var req StreamRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			if err := h.write(ctx, conn, StreamResponse{Error: "invalid message: " + err.Error()}); err != nil {
				return nil
			}
			continue
		}

		var updateErr error
		switch {
		case req.Country != "":
			_, updateErr = h.changeCountry(id, req.Country)
		case req.Sectors != nil:
			_, updateErr = h.changeSectors(id, *req.Sectors)
		}
		if updateErr != nil {
			if err := h.write(ctx, conn, StreamResponse{Error: updateErr.Error()}); err != nil {
				return nil
			}
			continue
		}

		if err := h.push(ctx, conn, id); err != nil {
			log.Debug().Err(err).Msg("Stream closed")
			return nil
		}
	}
}

// push renders the session and sends it. Render errors go to the client and
// keep the stream open; only write failures end it.
func (h *Handler) push(ctx context.Context, conn *websocket.Conn, id string) error {
	sess, err := h.sessions.Get(id)
	if err != nil {
		_ = h.write(ctx, conn, StreamResponse{Error: err.Error()})
		conn.Close(websocket.StatusPolicyViolation, "session expired")
		return err
	}
	resp := StreamResponse{State: sess.State}
	data, err := h.dash.Render(sess.State)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Dashboard = data
	}
	return h.write(ctx, conn, resp)
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, resp StreamResponse) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()

	w, err := conn.Writer(ctx, websocket.MessageText)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
