// Package metrics provides Prometheus metrics recording for internal packages.
// It sits below the repository, telemetry and middleware packages so none of
// them import each other for instrumentation.
package metrics
