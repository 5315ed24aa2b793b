// Package model holds the entities and the typed request/response
// contracts of every route group, one subpackage per resource.
//
// Request payloads implement validation.Validatable so handlers can
// bind and validate them once at the boundary.
package model

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance used by every payload.
// validator caches struct metadata, so a single instance is preferred.
var Validate = newValidator()

// newValidator reports fields under the name the client sent them as:
// the json name, else the query name, else the path param name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}
