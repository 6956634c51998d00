// Package observability provides the zap logger construction and the
// Prometheus collectors used across the API: HTTP request counts and
// latencies, plus authentication outcome counters.
package observability
