// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Event recording metrics
	IncVisitRecorded(status string) // status: "success" or "failed"
	IncClickRecorded(status string) // status: "success" or "failed"
	IncEmptyProductName()
	ObserveRecordDuration(duration time.Duration)

	// Range query metrics
	IncRangeCacheHit()
	IncRangeCacheMiss()
	ObserveRangeDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
