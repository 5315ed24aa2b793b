// Package handler is the HTTP layer.
//
// Each handler binds and validates a typed payload through Handle, calls its
// service and lets the global error handler render failures.
package handler
