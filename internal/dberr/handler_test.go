package dberr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func asHTTP(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleErrorNil(t *testing.T) {
	assert.NoError(t, HandleError(nil, "No Task Found", false))
}

func TestHandleErrorNotFound(t *testing.T) {
	for _, err := range []error{NotFound("tasks"), pgx.ErrNoRows, mongo.ErrNoDocuments} {
		httpErr := asHTTP(t, HandleError(err, "No Task Found", false))
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, "No Task Found", httpErr.Message)
	}
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewUnauthorizedError("nope", true)
	assert.Same(t, original, HandleError(original, "x", false))
}

func TestHandleErrorPgConstraints(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", Severity: "ERROR", TableName: "products"}
	httpErr := asHTTP(t, HandleError(unique, "No Product Found", false))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PRODUCT_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Product with this identifier already exists", httpErr.Message)

	check := &pgconn.PgError{Code: "23514", TableName: "products", ColumnName: "price"}
	httpErr = asHTTP(t, HandleError(check, "No Product Found", false))
	assert.Equal(t, "PRODUCT_INVALID", httpErr.Code)
	assert.Equal(t, "The Price value does not meet required conditions", httpErr.Message)

	notNull := &pgconn.PgError{Code: "23502", TableName: "tasks", ColumnName: "name"}
	httpErr = asHTTP(t, HandleError(notNull, "No Task Found", false))
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, httpErr.Errors)

	badUUID := &pgconn.PgError{Code: "22P02"}
	httpErr = asHTTP(t, HandleError(badUUID, "No Task Found", false))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleErrorPersistence(t *testing.T) {
	cause := errors.New("connection reset by peer")

	hidden := asHTTP(t, HandleError(cause, "No Task Found", false))
	assert.Equal(t, http.StatusInternalServerError, hidden.Status)
	assert.NotContains(t, hidden.Message, "connection reset")
	assert.ErrorIs(t, hidden, cause)

	exposed := asHTTP(t, HandleError(cause, "No Task Found", true))
	assert.Contains(t, exposed.Message, "connection reset by peer")
}

func TestConvertPgError(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23503", Severity: "LOUD"})
	assert.Equal(t, Other, converted.Code)
	assert.Equal(t, SeverityUnknown, converted.Severity)

	unique := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR", TableName: "products"})
	assert.Equal(t, UniqueViolation, unique.Code)
	assert.ErrorAs(t, unique, new(*pgconn.PgError))
}
