package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/storepulse/storepulse/internal/handler/dto"
	"github.com/storepulse/storepulse/internal/model"
	"github.com/storepulse/storepulse/internal/recorder"
	"github.com/storepulse/storepulse/internal/stats"
)

type fakeEventRecorder struct {
	visitErr error
	clickErr error

	gotProductName string
	gotTime        time.Time
}

func (f *fakeEventRecorder) RecordVisit(ctx context.Context, t time.Time) (string, error) {
	f.gotTime = t
	if f.visitErr != nil {
		return "", f.visitErr
	}
	return "01HV5KXJ8A9M2P3Q4R5S6T7V8W", nil
}

func (f *fakeEventRecorder) RecordClick(ctx context.Context, t time.Time, productName string) (string, error) {
	f.gotTime = t
	f.gotProductName = productName
	if f.clickErr != nil {
		return "", f.clickErr
	}
	return "01HV5KXJ8A9M2P3Q4R5S6T7V8W", nil
}

type fakeStatsReader struct {
	day      *model.DayStats
	rangeRes *model.RangeResult
	err      error

	gotDay   string
	gotHours int
}

func (f *fakeStatsReader) GetDay(ctx context.Context, day string) (*model.DayStats, error) {
	f.gotDay = day
	if f.err != nil {
		return nil, f.err
	}
	return f.day, nil
}

func (f *fakeStatsReader) GetRange(ctx context.Context, day string, windowHours int) (*model.RangeResult, error) {
	f.gotDay = day
	f.gotHours = windowHours
	if f.err != nil {
		return nil, f.err
	}
	return f.rangeRes, nil
}

func newTestStatsHandler(rec EventRecorder, reader StatsReader) *StatsHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewStatsHandler(rec, reader, time.UTC, logger)
	// Fixed clock: 21 January 2024, 08:15 UTC.
	h.now = func() time.Time {
		return time.Date(2024, time.January, 21, 8, 15, 0, 0, time.UTC)
	}
	return h
}

func TestStatsHandler_RecordVisit(t *testing.T) {
	rec := &fakeEventRecorder{}
	h := newTestStatsHandler(rec, &fakeStatsReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/stats/visit", nil)
	w := httptest.NewRecorder()

	h.RecordVisit(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d", w.Code)
	}

	var ack dto.RecordAck
	if err := json.NewDecoder(w.Body).Decode(&ack); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if ack.ID == "" {
		t.Error("expected non-empty acknowledgement ID")
	}
}

func TestStatsHandler_RecordVisit_StoreFailure(t *testing.T) {
	rec := &fakeEventRecorder{visitErr: errors.New("mongo down")}
	h := newTestStatsHandler(rec, &fakeStatsReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/stats/visit", nil)
	w := httptest.NewRecorder()

	h.RecordVisit(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}

	var errResp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errResp.Code != "INTERNAL_ERROR" {
		t.Errorf("expected code INTERNAL_ERROR, got %s", errResp.Code)
	}
}

func TestStatsHandler_RecordClick(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantProduct string
	}{
		{"with product name", `{"productName":"PS5"}`, "PS5"},
		{"empty product name", `{"productName":""}`, ""},
		{"empty body", "", ""},
		{"empty object", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeEventRecorder{}
			h := newTestStatsHandler(rec, &fakeStatsReader{})

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/stats/click", body)
			w := httptest.NewRecorder()

			h.RecordClick(w, req)

			if w.Code != http.StatusAccepted {
				t.Errorf("expected status 202, got %d", w.Code)
			}
			if rec.gotProductName != tt.wantProduct {
				t.Errorf("product name = %q, want %q", rec.gotProductName, tt.wantProduct)
			}
		})
	}
}

func TestStatsHandler_RecordClick_MalformedBody(t *testing.T) {
	rec := &fakeEventRecorder{}
	h := newTestStatsHandler(rec, &fakeStatsReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/stats/click", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.RecordClick(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestStatsHandler_RecordClick_NameTooLong(t *testing.T) {
	rec := &fakeEventRecorder{clickErr: recorder.ErrProductNameTooLong}
	h := newTestStatsHandler(rec, &fakeStatsReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/stats/click", strings.NewReader(`{"productName":"x"}`))
	w := httptest.NewRecorder()

	h.RecordClick(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var errResp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errResp.Code != "INVALID_REQUEST" {
		t.Errorf("expected code INVALID_REQUEST, got %s", errResp.Code)
	}
}

func TestStatsHandler_GetDay(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDay    string
	}{
		{"empty body resolves to today", "", http.StatusOK, "21.01.2024"},
		{"empty day resolves to today", `{"day":""}`, http.StatusOK, "21.01.2024"},
		{"ISO day", `{"day":"2024-01-05"}`, http.StatusOK, "05.01.2024"},
		{"key-form day", `{"day":"05.01.2024"}`, http.StatusOK, "05.01.2024"},
		{"padded day", `{"day":" 2024-01-05 "}`, http.StatusOK, "05.01.2024"},
		{"garbage day", `{"day":"tomorrow"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeStatsReader{day: &model.DayStats{Day: tt.wantDay}}
			h := newTestStatsHandler(&fakeEventRecorder{}, reader)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/stats/day", body)
			w := httptest.NewRecorder()

			h.GetDay(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusOK && reader.gotDay != tt.wantDay {
				t.Errorf("queried day = %q, want %q", reader.gotDay, tt.wantDay)
			}
		})
	}
}

func TestStatsHandler_GetRange(t *testing.T) {
	reader := &fakeStatsReader{
		rangeRes: &model.RangeResult{
			Day:       "21.01.2024",
			TimeRange: "8h",
			Data: []model.RangeWindow{
				{Time: "00:00 - 08:00", Visitors: 2, ProductClicks: 1},
				{Time: "08:00 - 16:00", Visitors: 5, ProductClicks: 3},
				{Time: "16:00 - 24:00", Visitors: 0, ProductClicks: 0},
			},
		},
	}
	h := newTestStatsHandler(&fakeEventRecorder{}, reader)

	req := httptest.NewRequest(http.MethodGet, "/v1/stats/range?date=2024-01-21&hours=8", nil)
	w := httptest.NewRecorder()

	h.GetRange(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if reader.gotDay != "21.01.2024" {
		t.Errorf("queried day = %q, want 21.01.2024", reader.gotDay)
	}
	if reader.gotHours != 8 {
		t.Errorf("queried hours = %d, want 8", reader.gotHours)
	}

	var resp dto.RangeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary.TotalVisitors != 7 {
		t.Errorf("total visitors = %d, want 7", resp.Summary.TotalVisitors)
	}
	if resp.Summary.TotalClicks != 4 {
		t.Errorf("total clicks = %d, want 4", resp.Summary.TotalClicks)
	}
	if len(resp.Data) != 3 {
		t.Errorf("expected 3 windows, got %d", len(resp.Data))
	}
}

func TestStatsHandler_GetRange_Defaults(t *testing.T) {
	reader := &fakeStatsReader{
		rangeRes: &model.RangeResult{Day: "21.01.2024", TimeRange: "24h"},
	}
	h := newTestStatsHandler(&fakeEventRecorder{}, reader)

	req := httptest.NewRequest(http.MethodGet, "/v1/stats/range", nil)
	w := httptest.NewRecorder()

	h.GetRange(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if reader.gotDay != "21.01.2024" {
		t.Errorf("queried day = %q, want today (21.01.2024)", reader.gotDay)
	}
	if reader.gotHours != 24 {
		t.Errorf("queried hours = %d, want 24", reader.gotHours)
	}
}

func TestStatsHandler_GetRange_BadInput(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		err      error
		wantCode string
	}{
		{"non-integer hours", "/v1/stats/range?hours=abc", nil, "INVALID_WINDOW"},
		{"out of range hours", "/v1/stats/range?hours=25", stats.ErrInvalidWindow, "INVALID_WINDOW"},
		{"zero hours", "/v1/stats/range?hours=0", stats.ErrInvalidWindow, "INVALID_WINDOW"},
		{"bad date", "/v1/stats/range?date=notaday", nil, "INVALID_DAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeStatsReader{err: tt.err}
			h := newTestStatsHandler(&fakeEventRecorder{}, reader)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			h.GetRange(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}

			var errResp dto.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if errResp.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", errResp.Code, tt.wantCode)
			}
		})
	}
}

func TestStatsHandler_GetRange_StoreFailure(t *testing.T) {
	reader := &fakeStatsReader{err: errors.New("mongo down")}
	h := newTestStatsHandler(&fakeEventRecorder{}, reader)

	req := httptest.NewRequest(http.MethodGet, "/v1/stats/range?hours=8", nil)
	w := httptest.NewRecorder()

	h.GetRange(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
