// Package recorder translates real-time visit and click events into
// store mutations.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/storepulse/storepulse/internal/metrics"
	"github.com/storepulse/storepulse/internal/store"
	"github.com/storepulse/storepulse/internal/timebucket"
)

// MaxProductNameLength bounds the product name accepted on a click event.
const MaxProductNameLength = 200

// ErrProductNameTooLong is returned for product names over the limit.
var ErrProductNameTooLong = errors.New("product name exceeds maximum length")

// Store defines the store operations the recorder needs.
type Store interface {
	EnsureDocument(ctx context.Context, day string) error
	EnsureBuckets(ctx context.Context, day string) error
	IncrementBucketField(ctx context.Context, day string, minuteIndex int, field store.Field) error
	IncrementProductClick(ctx context.Context, day, productName string) error
}

// Recorder is the event write path. Each event resolves to a day key and
// minute index, then runs the ensure-document, ensure-buckets, increment
// sequence against the store. Correctness under concurrency relies on the
// store's atomic increments, not on any in-process locking.
type Recorder struct {
	store   Store
	loc     *time.Location
	logger  *slog.Logger
	metrics metrics.Recorder
}

// New creates a new Recorder. The location decides which calendar day and
// minute an event timestamp falls into.
func New(st Store, loc *time.Location, logger *slog.Logger, recorder metrics.Recorder) *Recorder {
	if loc == nil {
		loc = time.Local
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Recorder{
		store:   st,
		loc:     loc,
		logger:  logger.With("component", "recorder"),
		metrics: recorder,
	}
}

// RecordVisit records one visitor event at the given timestamp. Returns a
// time-sortable acknowledgement ID.
func (r *Recorder) RecordVisit(ctx context.Context, t time.Time) (string, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveRecordDuration(time.Since(start)) }()

	day := timebucket.FormatDay(t, r.loc)
	minute := timebucket.MinuteIndex(t, r.loc)

	if err := r.prepare(ctx, day); err != nil {
		r.metrics.IncVisitRecorded("failed")
		return "", err
	}
	if err := r.store.IncrementBucketField(ctx, day, minute, store.FieldVisitors); err != nil {
		r.metrics.IncVisitRecorded("failed")
		return "", fmt.Errorf("record visit: %w", err)
	}

	r.metrics.IncVisitRecorded("success")
	return ulid.Make().String(), nil
}

// RecordClick records one product-click event at the given timestamp. The
// per-minute click counter is incremented even when the product name is
// missing; the degraded no-name tally is flagged rather than rejected.
func (r *Recorder) RecordClick(ctx context.Context, t time.Time, productName string) (string, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveRecordDuration(time.Since(start)) }()

	if len(productName) > MaxProductNameLength {
		r.metrics.IncClickRecorded("failed")
		return "", ErrProductNameTooLong
	}

	day := timebucket.FormatDay(t, r.loc)
	minute := timebucket.MinuteIndex(t, r.loc)

	if productName == "" {
		r.logger.Warn("click event without product name",
			slog.String("day", day),
			slog.Int("minute_index", minute),
		)
		r.metrics.IncEmptyProductName()
	}

	if err := r.prepare(ctx, day); err != nil {
		r.metrics.IncClickRecorded("failed")
		return "", err
	}
	if err := r.store.IncrementBucketField(ctx, day, minute, store.FieldClicks); err != nil {
		r.metrics.IncClickRecorded("failed")
		return "", fmt.Errorf("record click: %w", err)
	}
	if err := r.store.IncrementProductClick(ctx, day, productName); err != nil {
		// The per-minute counter already advanced; an undercount in one
		// tally is the documented partial-update outcome, not corruption.
		r.metrics.IncClickRecorded("failed")
		return "", fmt.Errorf("record product click: %w", err)
	}

	r.metrics.IncClickRecorded("success")
	return ulid.Make().String(), nil
}

// prepare runs the ensure-document, ensure-buckets sequence for a day.
// EnsureBuckets only does work for legacy documents that predate the
// per-minute schema.
func (r *Recorder) prepare(ctx context.Context, day string) error {
	if err := r.store.EnsureDocument(ctx, day); err != nil {
		return fmt.Errorf("ensure day document: %w", err)
	}
	if err := r.store.EnsureBuckets(ctx, day); err != nil {
		return fmt.Errorf("ensure buckets: %w", err)
	}
	return nil
}
