// Package timebucket defines the canonical per-day bucket schema: the
// 1440-slot one-minute counter array, day-key formatting and the label
// formats used by aggregated windows. Everything here is pure; no I/O,
// no randomness.
package timebucket

import (
	"fmt"
	"strings"
	"time"

	"github.com/storepulse/storepulse/internal/model"
)

const (
	// MinutesPerDay is the fixed length of a day's bucket array.
	MinutesPerDay = 24 * 60

	// HoursPerDay bounds the supported aggregation window sizes.
	HoursPerDay = 24

	// DayKeyLayout is the canonical day-key form, zero-padded and
	// locale-independent (e.g. "21.01.2024").
	DayKeyLayout = "02.01.2006"

	// DayISOLayout is the ISO input form accepted at the boundary.
	DayISOLayout = "2006-01-02"
)

// InitialBuckets returns the canonical initial state for a new day
// document: 1440 zero-valued buckets, index i covering the minute
// interval [i, i+1) of the day.
func InitialBuckets() []model.TimeBucket {
	buckets := make([]model.TimeBucket, MinutesPerDay)
	for i := range buckets {
		h, m := i/60, i%60
		buckets[i] = model.TimeBucket{
			Label:  fmt.Sprintf("%02d:%02d", h, m),
			Hour:   h,
			Minute: m,
		}
	}
	return buckets
}

// EmptyDay returns the canonical non-persisted document for a day with no
// recorded events. Reads never fail on absence; they degrade to this.
func EmptyDay(day string) *model.DayStats {
	return &model.DayStats{
		Day:           day,
		Buckets:       InitialBuckets(),
		ProductClicks: map[string]int64{},
	}
}

// FormatDay maps a point in time to its day key using the calendar date
// in loc. The location is injected rather than taken from the process
// environment so day boundaries are reproducible across deployments.
func FormatDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// MinuteIndex maps a point in time to its bucket index (hour*60 + minute)
// within the calendar day in loc.
func MinuteIndex(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// ParseDay canonicalizes a caller-supplied day string to the day-key
// form. Both the ISO form ("2024-01-21") and an already-formatted key
// ("21.01.2024") are accepted; surrounding whitespace is ignored.
func ParseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayISOLayout, s); err == nil {
		return t.Format(DayKeyLayout), nil
	}
	if t, err := time.Parse(DayKeyLayout, s); err == nil {
		return t.Format(DayKeyLayout), nil
	}
	return "", fmt.Errorf("invalid day %q: want %s or %s", s, DayISOLayout, DayKeyLayout)
}

// HourLabel formats a native one-hour window label ("08:00").
func HourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// WindowLabel formats a multi-hour window label ("08:00 - 16:00"). The
// exclusive end hour is clamped to 24 for the final truncated window of a
// non-dividing window size.
func WindowLabel(start, end int) string {
	if end > HoursPerDay {
		end = HoursPerDay
	}
	return fmt.Sprintf("%02d:00 - %02d:00", start, end)
}
