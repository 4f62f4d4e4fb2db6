package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/storepulse/storepulse/internal/handler/dto"
	"github.com/storepulse/storepulse/internal/model"
	"github.com/storepulse/storepulse/internal/recorder"
	"github.com/storepulse/storepulse/internal/stats"
	"github.com/storepulse/storepulse/internal/timebucket"
)

// EventRecorder records visit and click events.
type EventRecorder interface {
	RecordVisit(ctx context.Context, t time.Time) (string, error)
	RecordClick(ctx context.Context, t time.Time, productName string) (string, error)
}

// StatsReader serves day documents and aggregated range queries.
type StatsReader interface {
	GetDay(ctx context.Context, day string) (*model.DayStats, error)
	GetRange(ctx context.Context, day string, windowHours int) (*model.RangeResult, error)
}

// StatsHandler handles the analytics API requests.
type StatsHandler struct {
	recorder EventRecorder
	stats    StatsReader
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewStatsHandler creates a new StatsHandler. loc controls which calendar
// day an event or an empty day request resolves to; nil means local time.
func NewStatsHandler(rec EventRecorder, reader StatsReader, loc *time.Location, logger *slog.Logger) *StatsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &StatsHandler{
		recorder: rec,
		stats:    reader,
		loc:      loc,
		now:      time.Now,
		logger:   logger.With("component", "handler.stats"),
	}
}

// RecordVisit handles POST /v1/stats/visit.
func (h *StatsHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	id, err := h.recorder.RecordVisit(r.Context(), h.now())
	if err != nil {
		h.logger.Error("failed to record visit", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record visit")
		return
	}

	writeJSON(w, http.StatusAccepted, dto.RecordAck{ID: id})
}

// RecordClick handles POST /v1/stats/click.
// The body is optional; a missing or empty productName still counts the
// click against the day totals.
func (h *StatsHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordClickRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed request body")
		return
	}

	id, err := h.recorder.RecordClick(r.Context(), h.now(), req.ProductName)
	if err != nil {
		if errors.Is(err, recorder.ErrProductNameTooLong) {
			h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Product name exceeds maximum length")
			return
		}
		h.logger.Error("failed to record click", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record click")
		return
	}

	writeJSON(w, http.StatusAccepted, dto.RecordAck{ID: id})
}

// GetDay handles POST /v1/stats/day.
// An empty or absent day resolves to today in the configured location.
func (h *StatsHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	var req dto.DayRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed request body")
		return
	}

	day := timebucket.FormatDay(h.now(), h.loc)
	if req.Day != "" {
		parsed, err := timebucket.ParseDay(req.Day)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_DAY", "Day must be YYYY-MM-DD or DD.MM.YYYY")
			return
		}
		day = parsed
	}

	doc, err := h.stats.GetDay(r.Context(), day)
	if err != nil {
		h.logger.Error("failed to get day document", "day", day, "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch day statistics")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// GetRange handles GET /v1/stats/range?date=YYYY-MM-DD&hours=N.
func (h *StatsHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	day := timebucket.FormatDay(h.now(), h.loc)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := timebucket.ParseDay(dateStr)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_DAY", "date must be YYYY-MM-DD or DD.MM.YYYY")
			return
		}
		day = parsed
	}

	hours := timebucket.HoursPerDay
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		parsed, err := strconv.Atoi(hoursStr)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_WINDOW", "hours must be an integer")
			return
		}
		hours = parsed
	}

	result, err := h.stats.GetRange(r.Context(), day, hours)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidWindow) {
			h.writeError(w, http.StatusBadRequest, "INVALID_WINDOW", "hours must be between 1 and 24")
			return
		}
		h.logger.Error("failed to get range", "day", day, "hours", hours, "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch range statistics")
		return
	}

	writeJSON(w, http.StatusOK, dto.RangeResponse{
		Day:       result.Day,
		TimeRange: result.TimeRange,
		Data:      result.Data,
		Summary:   stats.Summarize(result.Data),
	})
}

func (h *StatsHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeOptionalJSON decodes a JSON body into dst, treating an empty body
// as an empty request. Unknown fields are ignored.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
