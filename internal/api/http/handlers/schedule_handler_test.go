package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/booknow-hub/internal/api/http"
	"github.com/spec-kit/booknow-hub/internal/api/http/handlers"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/service"
	"github.com/spec-kit/booknow-hub/internal/session"
)

const (
	tenantID     = "8f14e45f-ceea-467f-a0f6-000000000001"
	specialistID = "8f14e45f-ceea-467f-a0f6-000000000002"
	branchID     = "8f14e45f-ceea-467f-a0f6-000000000003"
)

type MockWeeklyRepo struct{ mock.Mock }

func (m *MockWeeklyRepo) Upsert(ctx context.Context, entry *domain.WeeklyScheduleEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockWeeklyRepo) UpsertMany(ctx context.Context, entries []*domain.WeeklyScheduleEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockWeeklyRepo) GetActive(ctx context.Context, tenantID, specialistID, branchID string, day domain.Weekday) (*domain.WeeklyScheduleEntry, error) {
	args := m.Called(ctx, tenantID, specialistID, branchID, day)
	entry, _ := args.Get(0).(*domain.WeeklyScheduleEntry)
	return entry, args.Error(1)
}

func (m *MockWeeklyRepo) List(ctx context.Context, tenantID, specialistID string, branchID *string) ([]domain.WeeklyScheduleEntry, error) {
	args := m.Called(ctx, tenantID, specialistID, branchID)
	entries, _ := args.Get(0).([]domain.WeeklyScheduleEntry)
	return entries, args.Error(1)
}

func (m *MockWeeklyRepo) Deactivate(ctx context.Context, tenantID, specialistID, branchID string, day domain.Weekday) error {
	return m.Called(ctx, tenantID, specialistID, branchID, day).Error(0)
}

type MockExceptionRepo struct{ mock.Mock }

func (m *MockExceptionRepo) Create(ctx context.Context, exception *domain.ScheduleException) error {
	return m.Called(ctx, exception).Error(0)
}

func (m *MockExceptionRepo) ListForDate(ctx context.Context, tenantID, specialistID string, date time.Time) ([]domain.ScheduleException, error) {
	args := m.Called(ctx, tenantID, specialistID, date)
	list, _ := args.Get(0).([]domain.ScheduleException)
	return list, args.Error(1)
}

func (m *MockExceptionRepo) ListRange(ctx context.Context, tenantID, specialistID string, from, to time.Time) ([]domain.ScheduleException, error) {
	args := m.Called(ctx, tenantID, specialistID, from, to)
	list, _ := args.Get(0).([]domain.ScheduleException)
	return list, args.Error(1)
}

func (m *MockExceptionRepo) Delete(ctx context.Context, tenantID, specialistID, id string) error {
	return m.Called(ctx, tenantID, specialistID, id).Error(0)
}

type lookupRepo[T any] struct{ rows map[string]*T }

func (r lookupRepo[T]) Create(context.Context, *T) error { return nil }

func (r lookupRepo[T]) GetByID(_ context.Context, _ string, id string) (*T, error) {
	if row, ok := r.rows[id]; ok {
		return row, nil
	}
	return nil, pgx.ErrNoRows
}

func (r lookupRepo[T]) List(context.Context, string, bool) ([]T, error) { return nil, nil }

type scheduleFixture struct {
	app        *fiber.App
	weekly     *MockWeeklyRepo
	exceptions *MockExceptionRepo
}

func newScheduleFixture(t *testing.T, role domain.MemberRole) *scheduleFixture {
	t.Helper()

	f := &scheduleFixture{weekly: &MockWeeklyRepo{}, exceptions: &MockExceptionRepo{}}
	schedules := service.NewScheduleService(service.ScheduleDependencies{
		WeeklyRepo:     f.weekly,
		ExceptionRepo:  f.exceptions,
		SpecialistRepo: lookupRepo[domain.Specialist]{rows: map[string]*domain.Specialist{specialistID: {ID: specialistID, TenantID: tenantID}}},
		BranchRepo:     lookupRepo[domain.Branch]{rows: map[string]*domain.Branch{branchID: {ID: branchID, TenantID: tenantID}}},
	}, zap.NewNop())
	h := handlers.NewScheduleHandler(schedules)

	f.app = fiber.New()
	httptransport.RegisterMiddlewares(f.app, zap.NewNop(), nil, 0)
	tenant := f.app.Group("/t/:slug", func(c *fiber.Ctx) error {
		session.SetFiberContext(c, &session.TenantContext{
			Member: domain.TenantMember{UserID: "u1", TenantID: tenantID, Role: role, IsActive: true},
			Tenant: domain.Tenant{ID: tenantID, Slug: "acme", IsActive: true},
		})
		return c.Next()
	})
	tenant.Get("/specialists/:specialistID/effective", h.Effective)
	tenant.Get("/specialists/:specialistID/schedule", h.ListWeekly)
	tenant.Put("/specialists/:specialistID/schedule/:weekday", h.UpsertWeekly)
	tenant.Delete("/specialists/:specialistID/schedule/:weekday", h.DeactivateWeekly)
	tenant.Post("/specialists/:specialistID/exceptions", h.CreateException)
	tenant.Post("/specialists/:specialistID/schedule/templates", h.ApplyTemplate)
	return f
}

func (f *scheduleFixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	if resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp.StatusCode, decoded
}

func effectivePath(date string) string {
	return "/t/acme/specialists/" + specialistID + "/effective?branch_id=" + branchID + "&date=" + date
}

func TestEffective_SpecialHoursException(t *testing.T) {
	f := newScheduleFixture(t, domain.MemberRoleEmployee)
	start, end := domain.TimeOfDay("10:00"), domain.TimeOfDay("14:00")
	f.exceptions.On("ListForDate", mock.Anything, tenantID, specialistID, mock.Anything).Return([]domain.ScheduleException{
		{ExceptionType: domain.ExceptionSpecialHours, StartTime: &start, EndTime: &end},
	}, nil)

	status, body := f.do(t, fiber.MethodGet, effectivePath("2025-03-04"), "")
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["day_of_week"])
	schedule := data["schedule"].(map[string]any)
	assert.Equal(t, "10:00", schedule["start"])
	assert.Equal(t, "14:00", schedule["end"])
	assert.Equal(t, "exception", schedule["source"])
	f.weekly.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEffective_NotWorkingIsNull(t *testing.T) {
	f := newScheduleFixture(t, domain.MemberRoleEmployee)
	f.exceptions.On("ListForDate", mock.Anything, tenantID, specialistID, mock.Anything).Return([]domain.ScheduleException{}, nil)
	f.weekly.On("GetActive", mock.Anything, tenantID, specialistID, branchID, domain.Sunday).Return(nil, pgx.ErrNoRows)

	status, body := f.do(t, fiber.MethodGet, effectivePath("2025-03-09"), "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Contains(t, data, "schedule")
	assert.Nil(t, data["schedule"])
}

func TestEffective_Validation(t *testing.T) {
	f := newScheduleFixture(t, domain.MemberRoleEmployee)

	status, body := f.do(t, fiber.MethodGet, effectivePath("04-03-2025"), "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	status, _ = f.do(t, fiber.MethodGet, "/t/acme/specialists/not-a-uuid/effective?branch_id="+branchID+"&date=2025-03-04", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = f.do(t, fiber.MethodGet, "/t/acme/specialists/"+specialistID+"/effective?date=2025-03-04", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUpsertWeekly(t *testing.T) {
	f := newScheduleFixture(t, domain.MemberRoleManager)
	f.weekly.On("Upsert", mock.Anything, mock.MatchedBy(func(e *domain.WeeklyScheduleEntry) bool {
		return e.DayOfWeek == domain.Tuesday && e.StartTime == "09:00" && e.BreakStart != nil && *e.BreakStart == "13:00"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.WeeklyScheduleEntry).ID = "entry-1"
	})

	body := `{"branch_id":"` + branchID + `","start_time":"9:00","end_time":"18:00","break_start":"13:00","break_end":"14:00"}`
	status, resp := f.do(t, fiber.MethodPut, "/t/acme/specialists/"+specialistID+"/schedule/tuesday", body)
	require.Equal(t, fiber.StatusOK, status)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "entry-1", data["id"])
	assert.Equal(t, "tuesday", data["day_name"])
	f.weekly.AssertExpectations(t)

	status, _ = f.do(t, fiber.MethodPut, "/t/acme/specialists/"+specialistID+"/schedule/funday", body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	bad := `{"branch_id":"` + branchID + `","start_time":"18:00","end_time":"09:00"}`
	status, _ = f.do(t, fiber.MethodPut, "/t/acme/specialists/"+specialistID+"/schedule/1", bad)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateException(t *testing.T) {
	f := newScheduleFixture(t, domain.MemberRoleManager)
	f.exceptions.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.ScheduleException) bool {
		return e.IsDayOff && e.StartTime == nil && e.ExceptionType == domain.ExceptionVacation
	})).Return(nil)

	body := `{"exception_date":"2025-03-05","exception_type":"VACATION","is_day_off":true,"start_time":"10:00","end_time":"12:00"}`
	status, resp := f.do(t, fiber.MethodPost, "/t/acme/specialists/"+specialistID+"/exceptions", body)
	require.Equal(t, fiber.StatusCreated, status)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "2025-03-05", data["exception_date"])
	assert.NotContains(t, data, "start_time")

	status, _ = f.do(t, fiber.MethodPost, "/t/acme/specialists/"+specialistID+"/exceptions", `{"exception_date":"2025-03-05","exception_type":"special_hours"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = f.do(t, fiber.MethodPost, "/t/acme/specialists/"+specialistID+"/exceptions", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestApplyTemplate_UnknownTemplate(t *testing.T) {
	f := newScheduleFixture(t, domain.MemberRoleOwner)

	status, resp := f.do(t, fiber.MethodPost, "/t/acme/specialists/"+specialistID+"/schedule/templates",
		`{"branch_id":"`+branchID+`","template":"nightshift"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, resp["error"].(map[string]any), "details")
	f.weekly.AssertNotCalled(t, "UpsertMany", mock.Anything, mock.Anything)
}

func TestScheduleHandlers_RejectMalformedBranchID(t *testing.T) {
	f := newScheduleFixture(t, domain.MemberRoleOwner)
	base := "/t/acme/specialists/" + specialistID

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"effective", fiber.MethodGet, base + "/effective?branch_id=branch-1&date=2025-03-04", ""},
		{"list weekly", fiber.MethodGet, base + "/schedule?branch_id=branch-1", ""},
		{"upsert weekly", fiber.MethodPut, base + "/schedule/monday", `{"branch_id":"branch-1","start_time":"09:00","end_time":"17:00"}`},
		{"deactivate weekly", fiber.MethodDelete, base + "/schedule/monday?branch_id=branch-1", ""},
		{"apply template", fiber.MethodPost, base + "/schedule/templates", `{"branch_id":"branch-1","template":"standard"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := f.do(t, tc.method, tc.path, tc.body)
			require.Equal(t, fiber.StatusBadRequest, status)
			envelope := body["error"].(map[string]any)
			assert.Equal(t, "VALIDATION_FAILED", envelope["code"])
		})
	}
	f.weekly.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.weekly.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
