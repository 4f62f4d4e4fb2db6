// Package stats provides the read path: day documents and their
// aggregation into caller-requested hour-sized windows.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storepulse/storepulse/internal/metrics"
	"github.com/storepulse/storepulse/internal/model"
	"github.com/storepulse/storepulse/internal/timebucket"
)

// ErrInvalidWindow is returned for a window size outside [1, 24] hours.
var ErrInvalidWindow = errors.New("window size out of range")

// Store defines the store operations the aggregation engine needs.
type Store interface {
	GetDocument(ctx context.Context, day string) (*model.DayStats, error)
}

// RangeCache caches aggregated range results. Implementations return a
// miss error for absent entries; any cache failure only degrades to a
// direct store read.
type RangeCache interface {
	GetRange(ctx context.Context, day string, windowHours int) (*model.RangeResult, error)
	SetRange(ctx context.Context, day string, windowHours int, result *model.RangeResult) error
}

// Service is the aggregation engine over the day document store.
type Service struct {
	store   Store
	cache   RangeCache // optional
	logger  *slog.Logger
	metrics metrics.Recorder
}

// New creates a new aggregation Service. cache may be nil.
func New(st Store, cache RangeCache, logger *slog.Logger, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Service{
		store:   st,
		cache:   cache,
		logger:  logger.With("component", "stats"),
		metrics: recorder,
	}
}

// GetDay returns the raw day document, or the canonical empty form for a
// day without recorded events. Legacy hourly documents are returned as
// stored; the schema tag on the model distinguishes them.
func (s *Service) GetDay(ctx context.Context, day string) (*model.DayStats, error) {
	return s.store.GetDocument(ctx, day)
}

// GetRange re-buckets a day's counters into windows of windowHours hours.
// Results are served from cache when available; the dashboard tolerates
// slightly stale live data.
func (s *Service) GetRange(ctx context.Context, day string, windowHours int) (*model.RangeResult, error) {
	if windowHours < 1 || windowHours > timebucket.HoursPerDay {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, windowHours)
	}

	start := time.Now()
	defer func() { s.metrics.ObserveRangeDuration(time.Since(start)) }()

	if s.cache != nil {
		if cached, err := s.cache.GetRange(ctx, day, windowHours); err == nil {
			s.metrics.IncRangeCacheHit()
			return cached, nil
		}
		s.metrics.IncRangeCacheMiss()
	}

	doc, err := s.store.GetDocument(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("get range for %s: %w", day, err)
	}

	result := &model.RangeResult{
		Day:       doc.Day,
		TimeRange: fmt.Sprintf("%dh", windowHours),
		Data:      aggregate(doc, windowHours),
	}

	if s.cache != nil {
		if err := s.cache.SetRange(ctx, day, windowHours, result); err != nil {
			s.logger.Warn("failed to cache range result",
				slog.String("day", day),
				slog.Int("window_hours", windowHours),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}

// aggregate dispatches on the document's schema. Legacy hourly documents
// already carry a 24-entry series and re-bucket by the same window rules.
func aggregate(doc *model.DayStats, windowHours int) []model.RangeWindow {
	if doc.Schema() == model.SchemaHourly {
		return aggregateLegacy(doc.Hours, windowHours)
	}
	return aggregateBuckets(doc.Buckets, windowHours)
}

// aggregateBuckets sums the per-minute counters into windows. The windows
// form a contiguous partition of the 1440 minutes: [i, i+windowHours)
// stepping by windowHours, with the final window truncated at 24:00 when
// the size does not divide the day evenly. windowHours == 24 is the
// special-cased hourly output: 24 one-hour windows labeled "HH:00".
func aggregateBuckets(buckets []model.TimeBucket, windowHours int) []model.RangeWindow {
	var hourVisitors, hourClicks [timebucket.HoursPerDay]int64
	for _, b := range buckets {
		if b.Hour < 0 || b.Hour >= timebucket.HoursPerDay {
			continue
		}
		hourVisitors[b.Hour] += b.Visitors
		hourClicks[b.Hour] += b.Clicks
	}
	return windowize(hourVisitors, hourClicks, windowHours)
}

// aggregateLegacy treats the stored hour entries as the native series.
// Entry order is positional: index i is hour i.
func aggregateLegacy(hours []model.LegacyHour, windowHours int) []model.RangeWindow {
	var hourVisitors, hourClicks [timebucket.HoursPerDay]int64
	for i, h := range hours {
		if i >= timebucket.HoursPerDay {
			break
		}
		hourVisitors[i] += h.Visitors
		hourClicks[i] += h.ProductClicks
	}
	return windowize(hourVisitors, hourClicks, windowHours)
}

// windowize groups per-hour sums into output windows, in ascending
// chronological order.
func windowize(visitors, clicks [timebucket.HoursPerDay]int64, windowHours int) []model.RangeWindow {
	if windowHours == timebucket.HoursPerDay {
		windows := make([]model.RangeWindow, timebucket.HoursPerDay)
		for h := 0; h < timebucket.HoursPerDay; h++ {
			windows[h] = model.RangeWindow{
				Time:          timebucket.HourLabel(h),
				Visitors:      visitors[h],
				ProductClicks: clicks[h],
			}
		}
		return windows
	}

	var windows []model.RangeWindow
	for startHour := 0; startHour < timebucket.HoursPerDay; startHour += windowHours {
		endHour := startHour + windowHours
		if endHour > timebucket.HoursPerDay {
			endHour = timebucket.HoursPerDay
		}

		var v, c int64
		for h := startHour; h < endHour; h++ {
			v += visitors[h]
			c += clicks[h]
		}

		windows = append(windows, model.RangeWindow{
			Time:          timebucket.WindowLabel(startHour, endHour),
			Visitors:      v,
			ProductClicks: c,
		})
	}
	return windows
}

// Summarize derives the dashboard totals from a window series. The
// conversion rate guards against a zero visitor count.
func Summarize(data []model.RangeWindow) model.RangeSummary {
	var summary model.RangeSummary
	for _, w := range data {
		summary.TotalVisitors += w.Visitors
		summary.TotalClicks += w.ProductClicks
	}
	if summary.TotalVisitors > 0 {
		summary.ConversionRate = float64(summary.TotalClicks) / float64(summary.TotalVisitors) * 100
	}
	return summary
}
