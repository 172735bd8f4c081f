package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booknow-hub/internal/api/dto"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/service"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

// ScheduleHandler exposes weekly schedules, exceptions and the effective schedule of specialists.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	now       func() time.Time
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, now: time.Now}
}

// ListWeekly handles GET /t/:slug/specialists/:specialistID/schedule.
func (h *ScheduleHandler) ListWeekly(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}
	var branchID *string
	if raw := c.Query("branch_id"); raw != "" {
		if _, err := branchIDValue(raw); err != nil {
			return err
		}
		branchID = &raw
	}

	entries, err := h.schedules.ListWeeklySchedule(c.UserContext(), tc.Tenant.ID, specialistID, branchID)
	if err != nil {
		return err
	}
	resp := make([]dto.WeeklyEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, weeklyEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// UpsertWeekly handles PUT /t/:slug/specialists/:specialistID/schedule/:weekday.
func (h *ScheduleHandler) UpsertWeekly(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}
	day, err := weekdayParam(c)
	if err != nil {
		return err
	}
	var req dto.WeeklyEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if _, err := branchIDValue(req.BranchID); err != nil {
		return err
	}

	entry := &domain.WeeklyScheduleEntry{
		TenantID:     tc.Tenant.ID,
		SpecialistID: specialistID,
		BranchID:     req.BranchID,
		DayOfWeek:    day,
		IsActive:     true,
	}
	if entry.StartTime, err = requiredTime("start_time", req.StartTime); err != nil {
		return err
	}
	if entry.EndTime, err = requiredTime("end_time", req.EndTime); err != nil {
		return err
	}
	if entry.BreakStart, err = parseOptionalTime("break_start", req.BreakStart); err != nil {
		return err
	}
	if entry.BreakEnd, err = parseOptionalTime("break_end", req.BreakEnd); err != nil {
		return err
	}

	if err := h.schedules.UpsertWeeklyEntry(actorContext(c, tc), entry); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": weeklyEntryResponse(entry)})
}

// DeactivateWeekly handles DELETE /t/:slug/specialists/:specialistID/schedule/:weekday?branch_id=.
func (h *ScheduleHandler) DeactivateWeekly(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}
	day, err := weekdayParam(c)
	if err != nil {
		return err
	}
	branchID, err := branchIDValue(c.Query("branch_id"))
	if err != nil {
		return err
	}

	if err := h.schedules.DeactivateWeeklyEntry(actorContext(c, tc), tc.Tenant.ID, specialistID, branchID, day); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ApplyTemplate handles POST /t/:slug/specialists/:specialistID/schedule/templates.
func (h *ScheduleHandler) ApplyTemplate(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}
	var req dto.ApplyTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if _, err := branchIDValue(req.BranchID); err != nil {
		return err
	}

	entries, err := h.schedules.ApplyStandardSchedule(actorContext(c, tc), tc.Tenant.ID, specialistID, req.BranchID, req.Template)
	if err != nil {
		return err
	}
	resp := make([]dto.WeeklyEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, weeklyEntryResponse(e))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListExceptions handles GET /t/:slug/specialists/:specialistID/exceptions?from=&to=.
// The range defaults to the next 30 days.
func (h *ScheduleHandler) ListExceptions(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}

	from := domain.DateOnly(h.now())
	to := from.AddDate(0, 0, 30)
	if raw := c.Query("from"); raw != "" {
		if from, err = dateQuery("from", raw); err != nil {
			return err
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = dateQuery("to", raw); err != nil {
			return err
		}
	}

	exceptions, err := h.schedules.ListExceptions(c.UserContext(), tc.Tenant.ID, specialistID, from, to)
	if err != nil {
		return err
	}
	resp := make([]dto.ExceptionResponse, 0, len(exceptions))
	for i := range exceptions {
		resp = append(resp, exceptionResponse(&exceptions[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateException handles POST /t/:slug/specialists/:specialistID/exceptions.
func (h *ScheduleHandler) CreateException(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}
	var req dto.ExceptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	date, err := dateQuery("exception_date", req.Date)
	if err != nil {
		return err
	}
	exception := &domain.ScheduleException{
		TenantID:      tc.Tenant.ID,
		SpecialistID:  specialistID,
		ExceptionDate: date,
		ExceptionType: domain.ExceptionType(strings.ToLower(req.Type)),
		IsDayOff:      req.IsDayOff,
		Reason:        req.Reason,
	}
	if exception.StartTime, err = parseOptionalTime("start_time", req.StartTime); err != nil {
		return err
	}
	if exception.EndTime, err = parseOptionalTime("end_time", req.EndTime); err != nil {
		return err
	}

	if err := h.schedules.CreateException(actorContext(c, tc), exception); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": exceptionResponse(exception)})
}

// DeleteException handles DELETE /t/:slug/specialists/:specialistID/exceptions/:exceptionID.
func (h *ScheduleHandler) DeleteException(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}
	exceptionID, err := uuidParam(c, "exceptionID")
	if err != nil {
		return err
	}
	if err := h.schedules.DeleteException(actorContext(c, tc), tc.Tenant.ID, specialistID, exceptionID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Effective handles GET /t/:slug/specialists/:specialistID/effective?branch_id=&date=.
// A null schedule means the specialist does not work that day.
func (h *ScheduleHandler) Effective(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialistID, err := uuidParam(c, "specialistID")
	if err != nil {
		return err
	}
	branchID, err := branchIDValue(c.Query("branch_id"))
	if err != nil {
		return err
	}
	date, err := dateQuery("date", c.Query("date"))
	if err != nil {
		return err
	}

	effective, err := h.schedules.GetEffectiveSchedule(c.UserContext(), tc.Tenant.ID, specialistID, branchID, date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EffectiveScheduleResponse{
		Date:      date.Format(time.DateOnly),
		DayOfWeek: int(domain.WeekdayOf(date)),
		BranchID:  branchID,
		Schedule:  scheduleInterval(effective),
	}})
}

func weekdayParam(c *fiber.Ctx) (domain.Weekday, error) {
	day, err := domain.ParseWeekday(c.Params("weekday"))
	if err != nil {
		return 0, apperrors.NewValidationError(err.Error(), map[string]any{"field": "weekday"})
	}
	return day, nil
}

func dateQuery(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError(field+" required", nil)
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(err.Error(), map[string]any{"field": field})
	}
	return d, nil
}

func requiredTime(field, raw string) (domain.TimeOfDay, error) {
	t, err := parseOptionalTime(field, &raw)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", apperrors.NewValidationError(field+" required", nil)
	}
	return *t, nil
}
