package timebucket

import (
	"fmt"
	"testing"
	"time"
)

func TestInitialBuckets_Complete(t *testing.T) {
	t.Parallel()

	buckets := InitialBuckets()

	if len(buckets) != MinutesPerDay {
		t.Fatalf("expected %d buckets, got %d", MinutesPerDay, len(buckets))
	}

	for i, b := range buckets {
		if b.Hour != i/60 {
			t.Fatalf("bucket %d: expected hour %d, got %d", i, i/60, b.Hour)
		}
		if b.Minute != i%60 {
			t.Fatalf("bucket %d: expected minute %d, got %d", i, i%60, b.Minute)
		}
		wantLabel := fmt.Sprintf("%02d:%02d", i/60, i%60)
		if b.Label != wantLabel {
			t.Fatalf("bucket %d: expected label %q, got %q", i, wantLabel, b.Label)
		}
		if b.Visitors != 0 || b.Clicks != 0 {
			t.Fatalf("bucket %d: expected zero counters, got visitors=%d clicks=%d", i, b.Visitors, b.Clicks)
		}
	}
}

func TestInitialBuckets_Deterministic(t *testing.T) {
	t.Parallel()

	a := InitialBuckets()
	b := InitialBuckets()

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bucket %d differs between calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEmptyDay(t *testing.T) {
	t.Parallel()

	doc := EmptyDay("01.01.2099")

	if doc.Day != "01.01.2099" {
		t.Errorf("expected day 01.01.2099, got %s", doc.Day)
	}
	if len(doc.Buckets) != MinutesPerDay {
		t.Errorf("expected %d buckets, got %d", MinutesPerDay, len(doc.Buckets))
	}
	if len(doc.ProductClicks) != 0 {
		t.Errorf("expected empty product clicks, got %v", doc.ProductClicks)
	}
	for i, b := range doc.Buckets {
		if b.Visitors != 0 || b.Clicks != 0 {
			t.Fatalf("bucket %d not zero-valued: %+v", i, b)
		}
	}
}

func TestFormatDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero padded", time.Date(2024, 1, 21, 8, 15, 0, 0, time.UTC), "21.01.2024"},
		{"single digit day", time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC), "03.11.2024"},
		{"new year", time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), "31.12.2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDay(tt.t, time.UTC)
			if got != tt.want {
				t.Errorf("FormatDay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDay_LocationAware(t *testing.T) {
	t.Parallel()

	// 23:30 UTC on the 21st is already the 22nd one hour east.
	east := time.FixedZone("east", 3600)
	ts := time.Date(2024, 1, 21, 23, 30, 0, 0, time.UTC)

	if got := FormatDay(ts, time.UTC); got != "21.01.2024" {
		t.Errorf("UTC day = %q, want 21.01.2024", got)
	}
	if got := FormatDay(ts, east); got != "22.01.2024" {
		t.Errorf("UTC+1 day = %q, want 22.01.2024", got)
	}
}

func TestMinuteIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"midnight", time.Date(2024, 1, 21, 0, 0, 30, 0, time.UTC), 0},
		{"morning", time.Date(2024, 1, 21, 8, 15, 0, 0, time.UTC), 8*60 + 15},
		{"last minute", time.Date(2024, 1, 21, 23, 59, 59, 0, time.UTC), 1439},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinuteIndex(tt.t, time.UTC)
			if got != tt.want {
				t.Errorf("MinuteIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMinuteIndex_LocationAware(t *testing.T) {
	t.Parallel()

	east := time.FixedZone("east", 3600)
	ts := time.Date(2024, 1, 21, 8, 15, 0, 0, time.UTC)

	if got := MinuteIndex(ts, east); got != 9*60+15 {
		t.Errorf("MinuteIndex in UTC+1 = %d, want %d", got, 9*60+15)
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso form", "2024-01-21", "21.01.2024", false},
		{"key form", "21.01.2024", "21.01.2024", false},
		{"iso single digits", "2024-03-05", "05.03.2024", false},
		{"leading space", " 2024-01-21", "21.01.2024", false},
		{"trailing space", "21.01.2024 ", "21.01.2024", false},
		{"surrounding whitespace", "\t2024-01-21\n", "21.01.2024", false},
		{"only whitespace", "   ", "", true},
		{"garbage", "yesterday", "", true},
		{"empty", "", "", true},
		{"wrong separators", "2024/01/21", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDay(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDay(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWindowLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		start, end int
		want       string
	}{
		{0, 8, "00:00 - 08:00"},
		{8, 16, "08:00 - 16:00"},
		{16, 24, "16:00 - 24:00"},
		{20, 25, "20:00 - 24:00"}, // clamped final window
	}

	for _, tt := range tests {
		if got := WindowLabel(tt.start, tt.end); got != tt.want {
			t.Errorf("WindowLabel(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestHourLabel(t *testing.T) {
	t.Parallel()

	if got := HourLabel(8); got != "08:00" {
		t.Errorf("HourLabel(8) = %q, want 08:00", got)
	}
	if got := HourLabel(23); got != "23:00" {
		t.Errorf("HourLabel(23) = %q, want 23:00", got)
	}
}
