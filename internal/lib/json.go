package lib

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// JSONSerializer is an echo.JSONSerializer backed by goccy/go-json.
//
// Decode failures produce the same echo.HTTPError messages as echo's default
// serializer so bind errors read the same to clients.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i any) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, i)
	if err == nil {
		return nil
	}

	if ute, ok := err.(*json.UnmarshalTypeError); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", ute.Type, ute.Value, ute.Field, ute.Offset)).SetInternal(err)
	}

	var offset int64
	if se, ok := err.(*json.SyntaxError); ok {
		offset = se.Offset
	}

	// goccy reports some type mismatches (a string where a number is
	// expected) as syntax errors. Well-formed input means a type mismatch.
	if json.Valid(data) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unmarshal type error: offset=%v, error=%v", offset, err.Error())).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Syntax error: offset=%v, error=%v", offset, err.Error())).SetInternal(err)
}
