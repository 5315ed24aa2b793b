// Package dberr classifies errors coming out of the store drivers.
//
// Postgres server errors are decoded from their SQLSTATE, Mongo errors from
// the driver's helpers, and both are mapped onto errs.HTTPError so the
// handlers never see a raw driver error.
package dberr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by every repository when the addressed record does
// not exist or its id is malformed for the active store.
var ErrNotFound = errors.New("record not found")

// NotFound wraps ErrNotFound with the collection or table it came from.
func NotFound(collection string) error {
	return fmt.Errorf("%s: %w", collection, ErrNotFound)
}

// Code is the category of a database error.
type Code string

const (
	Other            Code = "other"
	NotNullViolation Code = "not_null_violation"
	UniqueViolation  Code = "unique_violation"
	CheckViolation   Code = "check_violation"
	InvalidText      Code = "invalid_text_representation"
)

// pgCodes maps the SQLSTATE values we care about.
var pgCodes = map[string]Code{
	"23502": NotNullViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"22P02": InvalidText,
}

// MapCode converts a SQLSTATE into a Code.
func MapCode(sqlState string) Code {
	if code, ok := pgCodes[sqlState]; ok {
		return code
	}
	return Other
}

// Severity mirrors the Postgres message severity.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityUnknown Severity = "UNKNOWN"
)

func MapSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice:
		return Severity(s)
	}
	return SeverityUnknown
}

// Error is a decoded driver error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
