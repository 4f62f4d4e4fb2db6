package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncVisitRecorded is a no-op.
func (n *NoopRecorder) IncVisitRecorded(status string) {}

// IncClickRecorded is a no-op.
func (n *NoopRecorder) IncClickRecorded(status string) {}

// IncEmptyProductName is a no-op.
func (n *NoopRecorder) IncEmptyProductName() {}

// ObserveRecordDuration is a no-op.
func (n *NoopRecorder) ObserveRecordDuration(duration time.Duration) {}

// IncRangeCacheHit is a no-op.
func (n *NoopRecorder) IncRangeCacheHit() {}

// IncRangeCacheMiss is a no-op.
func (n *NoopRecorder) IncRangeCacheMiss() {}

// ObserveRangeDuration is a no-op.
func (n *NoopRecorder) ObserveRangeDuration(duration time.Duration) {}
