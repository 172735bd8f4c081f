package service

import (
	"sort"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

// ScheduleTemplate is a named weekly preset applied to every listed day.
type ScheduleTemplate struct {
	Name       string
	Days       []domain.Weekday
	Start      domain.TimeOfDay
	End        domain.TimeOfDay
	BreakStart *domain.TimeOfDay
	BreakEnd   *domain.TimeOfDay
}

var weekdays = []domain.Weekday{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday}

var standardTemplates = map[string]ScheduleTemplate{
	"fulltime": {
		Name:       "fulltime",
		Days:       weekdays,
		Start:      "09:00",
		End:        "18:00",
		BreakStart: timeOfDay("13:00"),
		BreakEnd:   timeOfDay("14:00"),
	},
	"morning": {
		Name:  "morning",
		Days:  weekdays,
		Start: "08:00",
		End:   "14:00",
	},
	"afternoon": {
		Name:  "afternoon",
		Days:  weekdays,
		Start: "14:00",
		End:   "20:00",
	},
	"weekend": {
		Name:  "weekend",
		Days:  []domain.Weekday{domain.Saturday, domain.Sunday},
		Start: "10:00",
		End:   "18:00",
	},
}

// StandardTemplate looks up a preset by name.
func StandardTemplate(name string) (ScheduleTemplate, bool) {
	tpl, ok := standardTemplates[name]
	return tpl, ok
}

// StandardTemplateNames lists the preset names in alphabetical order.
func StandardTemplateNames() []string {
	names := make([]string, 0, len(standardTemplates))
	for name := range standardTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries expands the template into one weekly entry per day.
func (t ScheduleTemplate) Entries(tenantID, specialistID, branchID string) []*domain.WeeklyScheduleEntry {
	entries := make([]*domain.WeeklyScheduleEntry, 0, len(t.Days))
	for _, day := range t.Days {
		entries = append(entries, &domain.WeeklyScheduleEntry{
			TenantID:     tenantID,
			SpecialistID: specialistID,
			BranchID:     branchID,
			DayOfWeek:    day,
			StartTime:    t.Start,
			EndTime:      t.End,
			BreakStart:   t.BreakStart,
			BreakEnd:     t.BreakEnd,
			IsActive:     true,
		})
	}
	return entries
}

func timeOfDay(s string) *domain.TimeOfDay {
	t := domain.TimeOfDay(s)
	return &t
}
