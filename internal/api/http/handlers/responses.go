package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/booknow-hub/internal/api/dto"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/events"
	"github.com/spec-kit/booknow-hub/internal/session"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

func uuidParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewValidationError("invalid "+name, map[string]any{name: raw})
	}
	return raw, nil
}

func branchIDValue(raw string) (string, error) {
	if raw == "" {
		return "", apperrors.NewValidationError("branch_id required", nil)
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewValidationError("invalid branch_id", map[string]any{"branch_id": raw})
	}
	return raw, nil
}

func requireTenant(c *fiber.Ctx) (*session.TenantContext, error) {
	tc, ok := session.TenantFromFiber(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return tc, nil
}

// actorContext stamps the caller onto the request context for published events.
func actorContext(c *fiber.Ctx, sc session.Context) context.Context {
	ctx := c.UserContext()
	p := session.ProjectionOf(sc)
	if p == nil {
		return ctx
	}
	return events.WithActor(ctx, events.Actor{UserID: p.UserID, Mode: string(p.Mode), Role: p.Role})
}

func sessionResponse(state session.State) dto.SessionResponse {
	resp := dto.SessionResponse{Mode: string(state.Mode())}
	if op := state.GlobalUser(); op != nil {
		r := operatorResponse(op)
		resp.Operator = &r
	}
	if m := state.TenantUser(); m != nil {
		r := memberResponse(m)
		resp.Member = &r
	}
	if t := state.Tenant(); t != nil {
		r := tenantResponse(t)
		resp.Tenant = &r
	}
	return resp
}

func tenantResponse(t *domain.Tenant) dto.TenantResponse {
	return dto.TenantResponse{ID: t.ID, Slug: t.Slug, Name: t.Name, IsActive: t.IsActive, CreatedAt: t.CreatedAt}
}

func operatorResponse(op *domain.GlobalOperator) dto.OperatorResponse {
	return dto.OperatorResponse{
		ID:       op.ID,
		UserID:   op.UserID,
		Email:    op.Email,
		FullName: op.FullName,
		Role:     string(op.Role),
		IsActive: op.IsActive,
	}
}

func memberResponse(m *domain.TenantMember) dto.MemberResponse {
	return dto.MemberResponse{
		ID:       m.ID,
		TenantID: m.TenantID,
		UserID:   m.UserID,
		Email:    m.Email,
		FullName: m.FullName,
		Role:     string(m.Role),
		IsActive: m.IsActive,
	}
}

func branchResponse(b *domain.Branch) dto.BranchResponse {
	return dto.BranchResponse{ID: b.ID, Name: b.Name, Address: b.Address, Phone: b.Phone, IsActive: b.IsActive}
}

func specialistResponse(s *domain.Specialist) dto.SpecialistResponse {
	return dto.SpecialistResponse{ID: s.ID, FullName: s.FullName, Email: s.Email, Phone: s.Phone, IsActive: s.IsActive}
}

func weeklyEntryResponse(e *domain.WeeklyScheduleEntry) dto.WeeklyEntryResponse {
	return dto.WeeklyEntryResponse{
		ID:         e.ID,
		BranchID:   e.BranchID,
		DayOfWeek:  int(e.DayOfWeek),
		DayName:    e.DayOfWeek.String(),
		StartTime:  string(e.StartTime),
		EndTime:    string(e.EndTime),
		BreakStart: timeString(e.BreakStart),
		BreakEnd:   timeString(e.BreakEnd),
		IsActive:   e.IsActive,
	}
}

func exceptionResponse(e *domain.ScheduleException) dto.ExceptionResponse {
	return dto.ExceptionResponse{
		ID:        e.ID,
		Date:      e.ExceptionDate.Format(time.DateOnly),
		Type:      string(e.ExceptionType),
		IsDayOff:  e.IsDayOff,
		StartTime: timeString(e.StartTime),
		EndTime:   timeString(e.EndTime),
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

func scheduleInterval(s *domain.EffectiveSchedule) *dto.ScheduleInterval {
	if s == nil {
		return nil
	}
	return &dto.ScheduleInterval{
		Start:         string(s.Start),
		End:           string(s.End),
		BreakStart:    timeString(s.BreakStart),
		BreakEnd:      timeString(s.BreakEnd),
		Source:        string(s.Source),
		ExceptionType: string(s.ExceptionType),
	}
}

func timeString(t *domain.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func parseOptionalTime(field string, raw *string) (*domain.TimeOfDay, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(*raw)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": field})
	}
	return &t, nil
}
