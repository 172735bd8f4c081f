package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is an ISO-8601 day number: Monday=1 ... Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayOf returns the ISO weekday of the calendar date t, independent of locale.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday())+6)%7 + 1)
}

// Valid reports whether d is within Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParseWeekday accepts an ISO number ("1".."7") or an English day name.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
		return Weekday(s[0] - '0'), nil
	}
	for i := int(Monday); i <= int(Sunday); i++ {
		if weekdayNames[i] == s || weekdayNames[i][:3] == s {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// TimeOfDay is a wall-clock time in 24h "HH:MM" form.
type TimeOfDay string

// ParseTimeOfDay normalizes "H:MM", "HH:MM" or "HH:MM:SS" into "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Format("15:04")), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", s)
}

// Minutes returns minutes since midnight; an unparsable value yields -1.
func (t TimeOfDay) Minutes() int {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// WeeklyScheduleEntry is a recurring per-weekday working interval for a specialist at a branch.
type WeeklyScheduleEntry struct {
	ID           string
	TenantID     string
	SpecialistID string
	BranchID     string
	DayOfWeek    Weekday
	StartTime    TimeOfDay
	EndTime      TimeOfDay
	BreakStart   *TimeOfDay
	BreakEnd     *TimeOfDay
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks day, interval ordering and break placement.
func (e WeeklyScheduleEntry) Validate() error {
	if !e.DayOfWeek.Valid() {
		return fmt.Errorf("day_of_week must be between 1 and 7")
	}
	if err := validateInterval(e.StartTime, e.EndTime); err != nil {
		return err
	}
	if (e.BreakStart == nil) != (e.BreakEnd == nil) {
		return fmt.Errorf("break_start and break_end must be provided together")
	}
	if e.BreakStart != nil {
		if err := validateInterval(*e.BreakStart, *e.BreakEnd); err != nil {
			return fmt.Errorf("break: %w", err)
		}
		if e.BreakStart.Before(e.StartTime) || e.EndTime.Before(*e.BreakEnd) {
			return fmt.Errorf("break must lie within working hours")
		}
	}
	return nil
}

// ExceptionType classifies a schedule exception.
type ExceptionType string

const (
	ExceptionVacation     ExceptionType = "vacation"
	ExceptionSick         ExceptionType = "sick"
	ExceptionHoliday      ExceptionType = "holiday"
	ExceptionSpecialHours ExceptionType = "special_hours"
)

// Valid reports whether t is a known exception type.
func (t ExceptionType) Valid() bool {
	switch t {
	case ExceptionVacation, ExceptionSick, ExceptionHoliday, ExceptionSpecialHours:
		return true
	}
	return false
}

// ScheduleException overrides the weekly template for exactly one calendar date.
type ScheduleException struct {
	ID            string
	TenantID      string
	SpecialistID  string
	ExceptionDate time.Time
	ExceptionType ExceptionType
	IsDayOff      bool
	StartTime     *TimeOfDay
	EndTime       *TimeOfDay
	Reason        *string
	CreatedAt     time.Time
}

// HasHours reports whether the exception carries an explicit interval.
func (e ScheduleException) HasHours() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// Validate enforces input rules. Day-off exceptions drop their times; special_hours requires an
// interval; other non-day-off exceptions may omit times and fall back to the weekly template.
func (e *ScheduleException) Validate() error {
	if !e.ExceptionType.Valid() {
		return fmt.Errorf("unknown exception_type %q", e.ExceptionType)
	}
	if e.ExceptionDate.IsZero() {
		return fmt.Errorf("exception_date is required")
	}
	if e.IsDayOff {
		e.StartTime, e.EndTime = nil, nil
		return nil
	}
	if (e.StartTime == nil) != (e.EndTime == nil) {
		return fmt.Errorf("start_time and end_time must be provided together")
	}
	if e.StartTime == nil {
		if e.ExceptionType == ExceptionSpecialHours {
			return fmt.Errorf("special_hours requires start_time and end_time")
		}
		return nil
	}
	return validateInterval(*e.StartTime, *e.EndTime)
}

// ScheduleSource tells where an effective schedule came from.
type ScheduleSource string

const (
	SourceWeekly    ScheduleSource = "weekly"
	SourceException ScheduleSource = "exception"
)

// EffectiveSchedule is the working interval of a specialist on one date.
type EffectiveSchedule struct {
	Start         TimeOfDay
	End           TimeOfDay
	BreakStart    *TimeOfDay
	BreakEnd      *TimeOfDay
	Source        ScheduleSource
	ExceptionType ExceptionType
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func validateInterval(start, end TimeOfDay) error {
	if start.Minutes() < 0 || end.Minutes() < 0 {
		return fmt.Errorf("times must be HH:MM")
	}
	if !start.Before(end) {
		return fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return nil
}
