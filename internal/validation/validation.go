// Package validation binds incoming requests onto payload structs and
// validates them.
//
// Struct tag rules run through go-playground/validator; failures are
// turned into field-level errors the client can act on.
package validation
