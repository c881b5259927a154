package dto

import (
	"time"

	"github.com/guttosm/nutrition-service/internal/domain/model"
)

// PaletteResponse lists the ingredient colors in position order.
//
// @Description Fixed ingredient color palette
type PaletteResponse struct {
	Colors []string `json:"colors" example:"#4CAF50,#FF9800,#2196F3,#E91E63,#9C27B0,#00BCD4"`
	Size   int      `json:"size" example:"6"`
} // @name PaletteResponse

// LogQueryRequest holds the query string filters of the activity log endpoint.
type LogQueryRequest struct {
	RequestID  string    `form:"request_id"`
	Level      string    `form:"level" binding:"omitempty,oneof=debug info warn error"`
	Method     string    `form:"method"`
	Path       string    `form:"path"`
	ActionType string    `form:"action_type"`
	Since      time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until      time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int       `form:"limit" binding:"omitempty,min=0"`
	Skip       int       `form:"skip" binding:"omitempty,min=0"`
}

// Validate checks that the time window is ordered.
func (r *LogQueryRequest) Validate() error {
	if !r.Since.IsZero() && !r.Until.IsZero() && r.Until.Before(r.Since) {
		return &ValidationError{
			Field:   "until",
			Message: "must not be before since",
		}
	}
	return nil
}

// ToOptions converts the request into repository query options.
func (r *LogQueryRequest) ToOptions() model.LogQueryOptions {
	opts := model.LogQueryOptions{
		RequestID:  r.RequestID,
		Level:      r.Level,
		Method:     r.Method,
		Path:       r.Path,
		ActionType: r.ActionType,
		Limit:      r.Limit,
		Skip:       r.Skip,
	}
	if !r.Since.IsZero() {
		since := r.Since
		opts.StartTime = &since
	}
	if !r.Until.IsZero() {
		until := r.Until
		opts.EndTime = &until
	}
	return opts
}

// LogsResponse is one page of activity log entries.
//
// @Description Page of activity log entries, newest first
type LogsResponse struct {
	Logs  []model.LogEntry `json:"logs"`
	Total int64            `json:"total" example:"42"`
	Limit int              `json:"limit" example:"50"`
	Skip  int              `json:"skip" example:"0"`
} // @name LogsResponse
