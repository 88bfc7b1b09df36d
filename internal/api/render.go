package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jobindex/internal/engine"
	"jobindex/internal/session"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const MIMEMsgpack = "application/x-msgpack"

// JSONSerializer plugs goccy/go-json into echo.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	var ute *json.UnmarshalTypeError
	var se *json.SyntaxError
	switch {
	case errors.As(err, &ute):
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", ute.Type, ute.Value, ute.Field, ute.Offset)).SetInternal(err)
	case errors.As(err, &se):
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Syntax error: offset=%v, error=%v", se.Offset, se.Error())).SetInternal(err)
	}
	return err
}

// respond writes v as MessagePack when the client asks for it, JSON otherwise.
func respond(c echo.Context, code int, v interface{}) error {
	if !strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEMsgpack) {
		return c.JSON(code, v)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return c.Blob(code, MIMEMsgpack, buf.Bytes())
}

// httpError maps domain errors onto status codes.
func httpError(err error) error {
	var uce *engine.UnknownCountryError
	var dle *engine.DataLoadError
	switch {
	case errors.Is(err, engine.ErrRegistryLoading):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Data is loading, please retry").SetInternal(err)
	case errors.As(err, &uce):
		return echo.NewHTTPError(http.StatusNotFound, uce.Error()).SetInternal(err)
	case errors.As(err, &dle):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, dle.Error()).SetInternal(err)
	case errors.Is(err, session.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	}
	return err
}
