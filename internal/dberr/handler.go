package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConvertPgError decodes a Postgres server error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// HandleError maps a repository error onto an *errs.HTTPError.
//
//   - *errs.HTTPError passes through untouched.
//   - ErrNotFound, pgx.ErrNoRows and mongo.ErrNoDocuments become a 404 with notFoundMessage.
//   - Constraint violations and Mongo duplicate keys become a 400.
//   - Anything else is a persistence error; expose controls whether the
//     driver message reaches the client.
func HandleError(err error, notFoundMessage string, expose bool) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NewNotFoundError(notFoundMessage, true, nil)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped := fromPg(ConvertPgError(pgErr), notFoundMessage); mapped != nil {
			return mapped
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		code := "RECORD_ALREADY_EXISTS"
		return errs.NewBadRequestError("A record with this identifier already exists", true, &code, nil, nil)
	}

	return errs.NewPersistenceError("Database operation failed", err, expose)
}

// fromPg returns nil for errors that are not the client's fault.
func fromPg(dbErr *Error, notFoundMessage string) error {
	code := errorCode(dbErr.TableName, dbErr.Code)

	switch dbErr.Code {
	case InvalidText:
		// A malformed uuid in a WHERE clause addresses nothing.
		return errs.NewNotFoundError(notFoundMessage, true, nil)
	case UniqueViolation:
		return errs.NewBadRequestError(
			fmt.Sprintf("A %s with this identifier already exists", entityName(dbErr.TableName)), true, &code, nil, nil)
	case NotNullViolation:
		field := strings.ToLower(dbErr.ColumnName)
		return errs.NewBadRequestError(
			fmt.Sprintf("The %s is required", humanize(dbErr.ColumnName)), true, &code,
			[]errs.FieldError{{Field: field, Error: "is required"}}, nil)
	case CheckViolation:
		msg := "One or more values do not meet required conditions"
		if dbErr.ColumnName != "" {
			msg = fmt.Sprintf("The %s value does not meet required conditions", humanize(dbErr.ColumnName))
		}
		return errs.NewBadRequestError(msg, true, &code, nil, nil)
	}

	return nil
}

// errorCode builds "<ENTITY>_<ACTION>", e.g. products + unique -> PRODUCT_ALREADY_EXISTS.
func errorCode(table string, code Code) string {
	domain := strings.ToUpper(singular(table))
	if domain == "" {
		domain = "RECORD"
	}

	action := "ERROR"
	switch code {
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return domain + "_" + action
}

func entityName(table string) string {
	if name := humanize(singular(table)); name != "" {
		return name
	}
	return "record"
}

func singular(table string) string {
	if len(table) > 1 && strings.HasSuffix(table, "s") {
		return table[:len(table)-1]
	}
	return table
}

// humanize turns snake_case into Title Case.
func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
