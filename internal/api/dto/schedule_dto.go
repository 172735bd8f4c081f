package dto

import "time"

// WeeklyEntryRequest payload for PUT .../schedule/:weekday.
type WeeklyEntryRequest struct {
	BranchID   string  `json:"branch_id"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}

// WeeklyEntryResponse representation.
type WeeklyEntryResponse struct {
	ID         string  `json:"id"`
	BranchID   string  `json:"branch_id"`
	DayOfWeek  int     `json:"day_of_week"`
	DayName    string  `json:"day_name"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	IsActive   bool    `json:"is_active"`
}

// ApplyTemplateRequest payload.
type ApplyTemplateRequest struct {
	BranchID string `json:"branch_id"`
	Template string `json:"template"`
}

// ExceptionRequest payload.
type ExceptionRequest struct {
	Date      string  `json:"exception_date"`
	Type      string  `json:"exception_type"`
	IsDayOff  bool    `json:"is_day_off"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    *string `json:"reason"`
}

// ExceptionResponse representation.
type ExceptionResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"exception_date"`
	Type      string    `json:"exception_type"`
	IsDayOff  bool      `json:"is_day_off"`
	StartTime *string   `json:"start_time,omitempty"`
	EndTime   *string   `json:"end_time,omitempty"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ScheduleInterval is a working interval for one date.
type ScheduleInterval struct {
	Start         string  `json:"start"`
	End           string  `json:"end"`
	BreakStart    *string `json:"break_start,omitempty"`
	BreakEnd      *string `json:"break_end,omitempty"`
	Source        string  `json:"source"`
	ExceptionType string  `json:"exception_type,omitempty"`
}

// EffectiveScheduleResponse answers whether a specialist works on a date. Schedule is null when not.
type EffectiveScheduleResponse struct {
	Date      string            `json:"date"`
	DayOfWeek int               `json:"day_of_week"`
	BranchID  string            `json:"branch_id"`
	Schedule  *ScheduleInterval `json:"schedule"`
}
