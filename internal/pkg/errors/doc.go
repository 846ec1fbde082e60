// Package errors provides application error types for the Reflection API.
//
// # Error Types
//
//   - NotFound: record does not exist (404)
//   - Validation, BadRequest: invalid input (400)
//   - Unauthorized: missing or invalid token (401)
//   - StoreUnavailable: the table store failed a read (503)
//   - Internal: unexpected server error (500)
//
// # Usage
//
//	records, err := svc.GetAllForUser(ctx, email)
//	if apperrors.IsStoreUnavailable(err) {
//	    // the read failed; an empty slice would mean "no records"
//	}
//
// Errors keep their cause, so errors.Is and errors.As see through them:
//
//	return apperrors.StoreUnavailable("scan failed").WithError(err)
package errors
