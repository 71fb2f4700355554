package metrics

import "time"

// HTTPMetrics provides observability for API request handling.
//
// Implementations are optional: a nil value disables collection with
// zero overhead.
type HTTPMetrics interface {
	// RecordRequest records a completed HTTP request with its method,
	// matched route pattern, status code and duration.
	RecordRequest(method, route string, status int, duration time.Duration)

	// RecordRequestStart increments the in-flight request gauge. The
	// route is not yet matched when a request starts, so the gauge
	// carries no labels.
	RecordRequestStart()

	// RecordRequestEnd decrements the in-flight request gauge.
	RecordRequestEnd()
}
