package lib

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJSONSerializerRoundTrip(t *testing.T) {
	c, rec := newContext(`{"name":"chair","price":12.5}`)

	var w widget
	require.NoError(t, c.Bind(&w))
	assert.Equal(t, widget{Name: "chair", Price: 12.5}, w)

	require.NoError(t, c.JSON(http.StatusCreated, w))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"name":"chair","price":12.5}`, rec.Body.String())
}

func TestJSONSerializerTypeError(t *testing.T) {
	c, _ := newContext(`{"name":"chair","price":"cheap"}`)

	var w widget
	err := c.Bind(&w)
	require.Error(t, err)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Contains(t, he.Message, "Unmarshal type error")
}

func TestJSONSerializerBoolTypeError(t *testing.T) {
	c, _ := newContext(`{"name":true,"price":1}`)

	var w widget
	err := c.Bind(&w)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Contains(t, he.Message, "Unmarshal type error")
}

func TestJSONSerializerSyntaxError(t *testing.T) {
	c, _ := newContext(`{"name":`)

	var w widget
	err := c.Bind(&w)
	require.Error(t, err)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Contains(t, he.Message, "Syntax error")
}
