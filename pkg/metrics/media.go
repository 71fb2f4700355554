package metrics

import "time"

// MediaMetrics provides observability for image upload operations.
//
// Implementations are optional: a nil value disables collection with
// zero overhead.
type MediaMetrics interface {
	// RecordUpload records a completed upload attempt for a folder
	// ("warranty-receipts" or "warranty-products") with its outcome
	// ("success" or "error"), payload size and duration.
	RecordUpload(folder, outcome string, bytes int64, duration time.Duration)
}
