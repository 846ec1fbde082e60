// Package service contains the business logic layer of the values API.
//
// Each values dataset (confidence, energy, focus) is served by one
// ValuesService instantiated over its record type. A service call scans the
// dataset's whole partition through the injected PartitionScanner, decodes
// every row and filters in memory. There is no caching or pagination.
//
// Every operation emits a telemetry event before it runs. Any failure during
// the scan, the decoding or the filtering is reported as exactly one
// telemetry exception and returned as a STORE_UNAVAILABLE AppError, so callers
// can always tell an empty result from a failed one.
//
// # Thread Safety
//
// Services hold no mutable state and are safe for concurrent use.
package service
