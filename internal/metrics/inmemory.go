package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	VisitsRecorded        uint64
	VisitsFailed          uint64
	ClicksRecorded        uint64
	ClicksFailed          uint64
	EmptyProductNames     uint64
	RecordDurationCount   uint64
	RecordDurationTotalNs int64
	RangeCacheHits        uint64
	RangeCacheMisses      uint64
	RangeDurationCount    uint64
	RangeDurationTotalNs  int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	visitsRecorded        uint64
	visitsFailed          uint64
	clicksRecorded        uint64
	clicksFailed          uint64
	emptyProductNames     uint64
	recordDurationCount   uint64
	recordDurationTotalNs int64
	rangeCacheHits        uint64
	rangeCacheMisses      uint64
	rangeDurationCount    uint64
	rangeDurationTotalNs  int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		VisitsRecorded:        atomic.LoadUint64(&m.visitsRecorded),
		VisitsFailed:          atomic.LoadUint64(&m.visitsFailed),
		ClicksRecorded:        atomic.LoadUint64(&m.clicksRecorded),
		ClicksFailed:          atomic.LoadUint64(&m.clicksFailed),
		EmptyProductNames:     atomic.LoadUint64(&m.emptyProductNames),
		RecordDurationCount:   atomic.LoadUint64(&m.recordDurationCount),
		RecordDurationTotalNs: atomic.LoadInt64(&m.recordDurationTotalNs),
		RangeCacheHits:        atomic.LoadUint64(&m.rangeCacheHits),
		RangeCacheMisses:      atomic.LoadUint64(&m.rangeCacheMisses),
		RangeDurationCount:    atomic.LoadUint64(&m.rangeDurationCount),
		RangeDurationTotalNs:  atomic.LoadInt64(&m.rangeDurationTotalNs),
	}
}

// IncVisitRecorded increments the visit counter for the given status.
func (m *InMemoryRecorder) IncVisitRecorded(status string) {
	if status == "success" {
		atomic.AddUint64(&m.visitsRecorded, 1)
		return
	}
	atomic.AddUint64(&m.visitsFailed, 1)
}

// IncClickRecorded increments the click counter for the given status.
func (m *InMemoryRecorder) IncClickRecorded(status string) {
	if status == "success" {
		atomic.AddUint64(&m.clicksRecorded, 1)
		return
	}
	atomic.AddUint64(&m.clicksFailed, 1)
}

// IncEmptyProductName increments the data-quality counter for click
// events that arrive without a product name.
func (m *InMemoryRecorder) IncEmptyProductName() {
	atomic.AddUint64(&m.emptyProductNames, 1)
}

// ObserveRecordDuration records how long a record operation took.
func (m *InMemoryRecorder) ObserveRecordDuration(duration time.Duration) {
	atomic.AddUint64(&m.recordDurationCount, 1)
	atomic.AddInt64(&m.recordDurationTotalNs, duration.Nanoseconds())
}

// IncRangeCacheHit increments the range cache hit counter.
func (m *InMemoryRecorder) IncRangeCacheHit() {
	atomic.AddUint64(&m.rangeCacheHits, 1)
}

// IncRangeCacheMiss increments the range cache miss counter.
func (m *InMemoryRecorder) IncRangeCacheMiss() {
	atomic.AddUint64(&m.rangeCacheMisses, 1)
}

// ObserveRangeDuration records how long a range aggregation took.
func (m *InMemoryRecorder) ObserveRangeDuration(duration time.Duration) {
	atomic.AddUint64(&m.rangeDurationCount, 1)
	atomic.AddInt64(&m.rangeDurationTotalNs, duration.Nanoseconds())
}
