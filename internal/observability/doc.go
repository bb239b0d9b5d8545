// Package observability provides structured logging and metrics for the
// ClaimInvestigator gateway.
//
// Loggers are zap based. Metrics are exported through a Prometheus registry
// owned by the application, so tests can use a private registry and the
// no-op implementation.
//
// Nothing in this package receives raw or restored claim text. Callers pass
// provider names, entity types, counts and latencies only.
package observability
