package handler

import (
	"fmt"
	"net/http"

	"github.com/storepulse/storepulse/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "storepulse_visits_recorded_total{status=\"success\"} %d\n", snap.VisitsRecorded)
	writeMetric(w, "storepulse_visits_recorded_total{status=\"failed\"} %d\n", snap.VisitsFailed)
	writeMetric(w, "storepulse_clicks_recorded_total{status=\"success\"} %d\n", snap.ClicksRecorded)
	writeMetric(w, "storepulse_clicks_recorded_total{status=\"failed\"} %d\n", snap.ClicksFailed)
	writeMetric(w, "storepulse_empty_product_names_total %d\n", snap.EmptyProductNames)

	writeMetric(w, "storepulse_record_duration_seconds_count %d\n", snap.RecordDurationCount)
	writeMetric(w, "storepulse_record_duration_seconds_sum %.6f\n", float64(snap.RecordDurationTotalNs)/1e9)

	writeMetric(w, "storepulse_range_cache_hits_total %d\n", snap.RangeCacheHits)
	writeMetric(w, "storepulse_range_cache_misses_total %d\n", snap.RangeCacheMisses)
	writeMetric(w, "storepulse_range_duration_seconds_count %d\n", snap.RangeDurationCount)
	writeMetric(w, "storepulse_range_duration_seconds_sum %.6f\n", float64(snap.RangeDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
