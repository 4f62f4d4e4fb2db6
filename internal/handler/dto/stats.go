// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/storepulse/storepulse/internal/model"
)

// RecordClickRequest represents the request body for recording a click.
// ProductName may be empty; clicks without a product are still counted.
type RecordClickRequest struct {
	ProductName string `json:"productName"`
}

// RecordAck acknowledges a recorded event.
type RecordAck struct {
	ID string `json:"id"`
}

// DayRequest represents the request body for fetching a day document.
// Day accepts YYYY-MM-DD or DD.MM.YYYY; empty means today.
type DayRequest struct {
	Day string `json:"day,omitempty"`
}

// RangeResponse represents an aggregated range query response.
type RangeResponse struct {
	Day       string              `json:"day"`
	TimeRange string              `json:"timeRange"`
	Data      []model.RangeWindow `json:"data"`
	Summary   model.RangeSummary  `json:"summary"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
