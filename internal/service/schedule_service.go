package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/events"
	"github.com/spec-kit/booknow-hub/internal/repository"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

// ScheduleService answers effective-schedule queries and manages weekly entries and exceptions.
type ScheduleService struct {
	weekly      repository.WeeklyScheduleRepository
	exceptions  repository.ScheduleExceptionRepository
	specialists repository.SpecialistRepository
	branches    repository.BranchRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// ScheduleDependencies bundles repositories for the schedule service.
type ScheduleDependencies struct {
	WeeklyRepo     repository.WeeklyScheduleRepository
	ExceptionRepo  repository.ScheduleExceptionRepository
	SpecialistRepo repository.SpecialistRepository
	BranchRepo     repository.BranchRepository
	Dispatcher     events.Dispatcher
}

// NewScheduleService constructs the service.
func NewScheduleService(deps ScheduleDependencies, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		weekly:      deps.WeeklyRepo,
		exceptions:  deps.ExceptionRepo,
		specialists: deps.SpecialistRepo,
		branches:    deps.BranchRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// GetEffectiveSchedule returns the working interval of a specialist at a branch on date, or nil
// when the specialist is not working. An exception for the date takes precedence over the weekly
// entry; a non-day-off exception without hours keeps the weekly entry.
func (s *ScheduleService) GetEffectiveSchedule(ctx context.Context, tenantID, specialistID, branchID string, date time.Time) (*domain.EffectiveSchedule, error) {
	day := domain.WeekdayOf(date)

	exceptions, err := s.exceptions.ListForDate(ctx, tenantID, specialistID, date)
	if err != nil {
		return nil, err
	}

	var annotation domain.ExceptionType
	if len(exceptions) > 0 {
		if len(exceptions) > 1 {
			s.logger.Warn("multiple schedule exceptions for one date, using the earliest",
				zap.String("specialist_id", specialistID),
				zap.String("date", date.Format(time.DateOnly)),
				zap.Int("count", len(exceptions)))
		}
		exception := exceptions[0]
		if exception.IsDayOff {
			return nil, nil
		}
		if exception.HasHours() {
			return &domain.EffectiveSchedule{
				Start:         *exception.StartTime,
				End:           *exception.EndTime,
				Source:        domain.SourceException,
				ExceptionType: exception.ExceptionType,
			}, nil
		}
		annotation = exception.ExceptionType
	}

	entry, err := s.weekly.GetActive(ctx, tenantID, specialistID, branchID, day)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.EffectiveSchedule{
		Start:         entry.StartTime,
		End:           entry.EndTime,
		BreakStart:    entry.BreakStart,
		BreakEnd:      entry.BreakEnd,
		Source:        domain.SourceWeekly,
		ExceptionType: annotation,
	}, nil
}

// ApplyStandardSchedule upserts a named preset for every day it covers in one transaction.
func (s *ScheduleService) ApplyStandardSchedule(ctx context.Context, tenantID, specialistID, branchID, templateName string) ([]*domain.WeeklyScheduleEntry, error) {
	tpl, ok := StandardTemplate(templateName)
	if !ok {
		return nil, apperrors.NewValidationError("unknown schedule template", map[string]any{
			"template":  templateName,
			"available": StandardTemplateNames(),
		})
	}
	if err := s.ensureAssignment(ctx, tenantID, specialistID, branchID); err != nil {
		return nil, err
	}

	entries := tpl.Entries(tenantID, specialistID, branchID)
	if err := s.weekly.UpsertMany(ctx, entries); err != nil {
		return nil, err
	}

	days := make([]int, len(tpl.Days))
	for i, d := range tpl.Days {
		days[i] = int(d)
	}
	s.publish(ctx, tenantID, events.EventScheduleTemplateApplied, events.TemplateAppliedPayload{
		SpecialistID: specialistID,
		BranchID:     branchID,
		Template:     tpl.Name,
		Days:         days,
	})
	return entries, nil
}

// UpsertWeeklyEntry creates or replaces the active entry for (specialist, branch, day).
func (s *ScheduleService) UpsertWeeklyEntry(ctx context.Context, entry *domain.WeeklyScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.ensureAssignment(ctx, entry.TenantID, entry.SpecialistID, entry.BranchID); err != nil {
		return err
	}

	entry.IsActive = true
	if err := s.weekly.Upsert(ctx, entry); err != nil {
		return err
	}
	s.publish(ctx, entry.TenantID, events.EventWeeklyEntryUpserted, events.WeeklyEntryPayload{
		SpecialistID: entry.SpecialistID,
		BranchID:     entry.BranchID,
		DayOfWeek:    int(entry.DayOfWeek),
		Active:       true,
	})
	return nil
}

// ListWeeklySchedule returns all entries of a specialist, optionally for one branch.
func (s *ScheduleService) ListWeeklySchedule(ctx context.Context, tenantID, specialistID string, branchID *string) ([]domain.WeeklyScheduleEntry, error) {
	if err := s.ensureSpecialist(ctx, tenantID, specialistID); err != nil {
		return nil, err
	}
	return s.weekly.List(ctx, tenantID, specialistID, branchID)
}

// DeactivateWeeklyEntry marks the entry for (specialist, branch, day) inactive.
func (s *ScheduleService) DeactivateWeeklyEntry(ctx context.Context, tenantID, specialistID, branchID string, day domain.Weekday) error {
	if !day.Valid() {
		return apperrors.NewValidationError("day_of_week must be between 1 and 7", nil)
	}
	err := s.weekly.Deactivate(ctx, tenantID, specialistID, branchID, day)
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("weekly schedule entry", map[string]any{"day_of_week": int(day)})
	}
	if err != nil {
		return err
	}
	s.publish(ctx, tenantID, events.EventWeeklyEntryUpserted, events.WeeklyEntryPayload{
		SpecialistID: specialistID,
		BranchID:     branchID,
		DayOfWeek:    int(day),
		Active:       false,
	})
	return nil
}

// CreateException records a one-date override. A second exception for the same date is a conflict.
func (s *ScheduleService) CreateException(ctx context.Context, exception *domain.ScheduleException) error {
	if err := exception.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.ensureSpecialist(ctx, exception.TenantID, exception.SpecialistID); err != nil {
		return err
	}

	exception.ExceptionDate = domain.DateOnly(exception.ExceptionDate)
	if err := s.exceptions.Create(ctx, exception); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.NewConflict("an exception already exists for this date", map[string]any{
				"exception_date": exception.ExceptionDate.Format(time.DateOnly),
			})
		}
		return err
	}
	s.publish(ctx, exception.TenantID, events.EventScheduleExceptionCreated, events.ExceptionPayload{
		ExceptionID:   exception.ID,
		SpecialistID:  exception.SpecialistID,
		Date:          exception.ExceptionDate.Format(time.DateOnly),
		ExceptionType: string(exception.ExceptionType),
		IsDayOff:      exception.IsDayOff,
	})
	return nil
}

// ListExceptions returns exceptions of a specialist between from and to inclusive.
func (s *ScheduleService) ListExceptions(ctx context.Context, tenantID, specialistID string, from, to time.Time) ([]domain.ScheduleException, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("from must not be after to", nil)
	}
	if err := s.ensureSpecialist(ctx, tenantID, specialistID); err != nil {
		return nil, err
	}
	return s.exceptions.ListRange(ctx, tenantID, specialistID, from, to)
}

// DeleteException removes one exception.
func (s *ScheduleService) DeleteException(ctx context.Context, tenantID, specialistID, exceptionID string) error {
	err := s.exceptions.Delete(ctx, tenantID, specialistID, exceptionID)
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("schedule exception", map[string]any{"id": exceptionID})
	}
	if err != nil {
		return err
	}
	s.publish(ctx, tenantID, events.EventScheduleExceptionDeleted, events.ExceptionPayload{
		ExceptionID:  exceptionID,
		SpecialistID: specialistID,
	})
	return nil
}

func (s *ScheduleService) ensureSpecialist(ctx context.Context, tenantID, specialistID string) error {
	_, err := s.specialists.GetByID(ctx, tenantID, specialistID)
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("specialist", map[string]any{"id": specialistID})
	}
	return err
}

func (s *ScheduleService) ensureAssignment(ctx context.Context, tenantID, specialistID, branchID string) error {
	if err := s.ensureSpecialist(ctx, tenantID, specialistID); err != nil {
		return err
	}
	_, err := s.branches.GetByID(ctx, tenantID, branchID)
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("branch", map[string]any{"id": branchID})
	}
	return err
}

func (s *ScheduleService) publish(ctx context.Context, tenantID string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{Type: eventType, TenantID: tenantID, Actor: events.ActorFrom(ctx), Payload: payload}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
