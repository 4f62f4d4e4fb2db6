// Package model defines domain entities for the application.
package model

// Schema identifies which counter layout a stored day document carries.
type Schema string

const (
	// SchemaMinute is the current layout: 1440 one-minute buckets.
	SchemaMinute Schema = "minute"

	// SchemaHourly is the legacy layout: 24 pre-aggregated hour entries.
	// Documents created before the per-minute buckets existed carry this
	// shape until EnsureBuckets heals them.
	SchemaHourly Schema = "hourly"

	// SchemaEmpty marks a document with neither series. Should only occur
	// for partially written legacy data.
	SchemaEmpty Schema = "empty"
)

// TimeBucket is a single one-minute counter slot in a day's series.
// Label, Hour and Minute are fully determined by the bucket's index
// (index = Hour*60 + Minute); they are stored alongside the counters so
// the document is self-describing for ad hoc queries.
type TimeBucket struct {
	Label    string `bson:"label" json:"time"`
	Hour     int    `bson:"hour" json:"hour"`
	Minute   int    `bson:"minute" json:"minute"`
	Visitors int64  `bson:"visitors" json:"visitors"`
	Clicks   int64  `bson:"clicks" json:"productClicks"`
}

// LegacyHour is one entry of the pre-minute hourly layout.
type LegacyHour struct {
	Time          string `bson:"time" json:"time"`
	Visitors      int64  `bson:"visitors" json:"visitors"`
	ProductClicks int64  `bson:"productClicks" json:"productClicks"`
}

// DayStats is the per-calendar-day analytics document. Exactly one exists
// per day key; it is created lazily on the first event for that day and
// mutated by atomic increments thereafter.
type DayStats struct {
	Day           string           `bson:"day" json:"day"`
	Buckets       []TimeBucket     `bson:"buckets,omitempty" json:"buckets,omitempty"`
	Hours         []LegacyHour     `bson:"hours,omitempty" json:"hours,omitempty"`
	ProductClicks map[string]int64 `bson:"productClicks,omitempty" json:"productClicks"`
}

// Schema reports the counter layout of the document.
func (d *DayStats) Schema() Schema {
	switch {
	case len(d.Buckets) > 0:
		return SchemaMinute
	case len(d.Hours) > 0:
		return SchemaHourly
	default:
		return SchemaEmpty
	}
}

// RangeWindow is one aggregated output slot of a range query.
type RangeWindow struct {
	Time          string `json:"time"`
	Visitors      int64  `json:"visitors"`
	ProductClicks int64  `json:"productClicks"`
}

// RangeResult is the ordered window series for a single day at a
// requested granularity. Data is in ascending chronological order; chart
// rendering relies on that ordering.
type RangeResult struct {
	Day       string        `json:"day"`
	TimeRange string        `json:"timeRange"`
	Data      []RangeWindow `json:"data"`
}

// RangeSummary holds the derived dashboard totals for a window series.
type RangeSummary struct {
	TotalVisitors  int64   `json:"totalVisitors"`
	TotalClicks    int64   `json:"totalClicks"`
	ConversionRate float64 `json:"conversionRate"`
}
