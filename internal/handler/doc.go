// Package handler contains the HTTP request handlers of the values API.
//
// Routes:
//   - /v1/values/{confidence,energy,focus}/* - dataset lookups (JWT authentication)
//   - /v1/tables - partition key registry (JWT authentication)
//   - /health, /livez, /readyz, /version - probes (no auth required)
//
// Handlers map apperrors codes onto status codes: VALIDATION_ERROR and
// BAD_REQUEST to 400, UNAUTHORIZED to 401, NOT_FOUND to 404 and
// STORE_UNAVAILABLE to 503.
package handler
