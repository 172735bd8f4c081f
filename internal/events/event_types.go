package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionEstablished       EventType = "session_established"
	EventSessionRolledBack        EventType = "session_rolled_back"
	EventSessionSignedOut         EventType = "session_signed_out"
	EventWeeklyEntryUpserted      EventType = "weekly_entry_upserted"
	EventScheduleTemplateApplied  EventType = "schedule_template_applied"
	EventScheduleExceptionCreated EventType = "schedule_exception_created"
	EventScheduleExceptionDeleted EventType = "schedule_exception_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string `json:"user_id,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TenantID  string    `json:"tenant_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// SessionPayload describes a session transition.
type SessionPayload struct {
	Flow       string `json:"flow"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// WeeklyEntryPayload describes a weekly schedule change.
type WeeklyEntryPayload struct {
	SpecialistID string `json:"specialist_id"`
	BranchID     string `json:"branch_id"`
	DayOfWeek    int    `json:"day_of_week"`
	Active       bool   `json:"active"`
}

// TemplateAppliedPayload describes a bulk template application.
type TemplateAppliedPayload struct {
	SpecialistID string `json:"specialist_id"`
	BranchID     string `json:"branch_id"`
	Template     string `json:"template"`
	Days         []int  `json:"days"`
}

// ExceptionPayload describes a created or deleted schedule exception.
type ExceptionPayload struct {
	ExceptionID   string `json:"exception_id"`
	SpecialistID  string `json:"specialist_id"`
	Date          string `json:"date,omitempty"`
	ExceptionType string `json:"exception_type,omitempty"`
	IsDayOff      bool   `json:"is_day_off"`
}
