// Package middleware holds the global and route-specific echo middleware:
// bearer token authentication, request ids, the request-scoped logger,
// access logging, login rate limiting, New Relic tracing, CORS, secure
// headers, panic recovery, and the global error handler.
package middleware
