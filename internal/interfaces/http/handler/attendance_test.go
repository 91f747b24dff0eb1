package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	attendanceapp "github.com/loro/backend/internal/application/attendance"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAttendanceService struct{ mock.Mock }

func (m *mockAttendanceService) CheckIn(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req attendanceapp.CheckInRequest) (*attendanceapp.AttendanceResponse, error) {
	args := m.Called(ctx, tenantID, userID, branchID, req)
	res, _ := args.Get(0).(*attendanceapp.AttendanceResponse)
	return res, args.Error(1)
}

func (m *mockAttendanceService) CheckOut(ctx context.Context, tenantID, userID uuid.UUID, req attendanceapp.CheckInRequest) (*attendanceapp.AttendanceResponse, error) {
	args := m.Called(ctx, tenantID, userID, req)
	res, _ := args.Get(0).(*attendanceapp.AttendanceResponse)
	return res, args.Error(1)
}

func (m *mockAttendanceService) GetStatus(ctx context.Context, tenantID, userID uuid.UUID) (*attendanceapp.StatusResponse, error) {
	args := m.Called(ctx, tenantID, userID)
	res, _ := args.Get(0).(*attendanceapp.StatusResponse)
	return res, args.Error(1)
}

func (m *mockAttendanceService) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, req attendanceapp.DateRangeRequest) ([]attendanceapp.AttendanceResponse, error) {
	args := m.Called(ctx, tenantID, userID, req)
	res, _ := args.Get(0).([]attendanceapp.AttendanceResponse)
	return res, args.Error(1)
}

func (m *mockAttendanceService) ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID, req attendanceapp.DateRangeRequest) ([]attendanceapp.AttendanceResponse, error) {
	args := m.Called(ctx, tenantID, branchID, req)
	res, _ := args.Get(0).([]attendanceapp.AttendanceResponse)
	return res, args.Error(1)
}

type mockVisitService struct{ mock.Mock }

func (m *mockVisitService) Start(ctx context.Context, tenantID, userID uuid.UUID, branchID *uuid.UUID, req attendanceapp.StartVisitRequest) (*attendanceapp.VisitResponse, error) {
	args := m.Called(ctx, tenantID, userID, branchID, req)
	res, _ := args.Get(0).(*attendanceapp.VisitResponse)
	return res, args.Error(1)
}

func (m *mockVisitService) End(ctx context.Context, tenantID, userID, id uuid.UUID, req attendanceapp.EndVisitRequest) (*attendanceapp.VisitResponse, error) {
	args := m.Called(ctx, tenantID, userID, id, req)
	res, _ := args.Get(0).(*attendanceapp.VisitResponse)
	return res, args.Error(1)
}

func (m *mockVisitService) List(ctx context.Context, tenantID uuid.UUID, req attendanceapp.ListVisitsRequest) ([]attendanceapp.VisitResponse, int64, error) {
	args := m.Called(ctx, tenantID, req)
	res, _ := args.Get(0).([]attendanceapp.VisitResponse)
	return res, args.Get(1).(int64), args.Error(2)
}

func attendanceEngine(a *mockAttendanceService, v *mockVisitService, role identity.Role) http.Handler {
	h := NewAttendanceHandler(a, v)
	p := principal(role)
	r := newEngine(&p)
	r.POST("/attendance/check-in", h.CheckIn)
	r.GET("/attendance/status", h.Status)
	r.GET("/attendance/branch/:branchId", h.ByBranch)
	r.POST("/check-ins", h.StartVisit)
	r.POST("/check-ins/:id/check-out", h.EndVisit)
	r.GET("/check-ins", h.ListVisits)
	return r
}

func TestAttendanceHandler_CheckIn(t *testing.T) {
	t.Run("opens a shift in the caller's branch", func(t *testing.T) {
		a := new(mockAttendanceService)
		a.On("CheckIn", mock.Anything, testTenant, testUser, &testBranch, mock.Anything).
			Return(&attendanceapp.AttendanceResponse{ID: uuid.New(), UserID: testUser}, nil)

		w := do(attendanceEngine(a, nil, identity.RoleUser), http.MethodPost, "/attendance/check-in",
			map[string]any{"location": map[string]float64{"lat": -26.2, "lng": 28.04}})

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		a.AssertExpectations(t)
	})

	t.Run("out of range latitude is rejected by binding", func(t *testing.T) {
		a := new(mockAttendanceService)

		w := do(attendanceEngine(a, nil, identity.RoleUser), http.MethodPost, "/attendance/check-in",
			map[string]any{"location": map[string]float64{"lat": 95, "lng": 0}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		a.AssertNotCalled(t, "CheckIn")
	})

	t.Run("an open shift is an invalid state", func(t *testing.T) {
		a := new(mockAttendanceService)
		a.On("CheckIn", mock.Anything, testTenant, testUser, &testBranch, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_STATE", "Already checked in"))

		w := do(attendanceEngine(a, nil, identity.RoleUser), http.MethodPost, "/attendance/check-in", map[string]any{})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w))
	})
}

func TestAttendanceHandler_StatusAndBranch(t *testing.T) {
	a := new(mockAttendanceService)
	a.On("GetStatus", mock.Anything, testTenant, testUser).Return(&attendanceapp.StatusResponse{CheckedIn: true}, nil)
	a.On("ListByBranch", mock.Anything, testTenant, testBranch, mock.Anything).Return([]attendanceapp.AttendanceResponse{}, nil)
	r := attendanceEngine(a, nil, identity.RoleSupervisor)

	w := do(r, http.MethodGet, "/attendance/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"checked_in":true`)

	w = do(r, http.MethodGet, "/attendance/branch/"+testBranch.String()+"?from=2024-03-01&to=2024-03-31", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/attendance/branch/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	a.AssertExpectations(t)
}

func TestAttendanceHandler_Visits(t *testing.T) {
	client := uuid.New()
	visit := uuid.New()

	t.Run("start requires a client", func(t *testing.T) {
		v := new(mockVisitService)

		w := do(attendanceEngine(nil, v, identity.RoleUser), http.MethodPost, "/check-ins", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		v.AssertNotCalled(t, "Start")
	})

	t.Run("start and end pass the caller", func(t *testing.T) {
		v := new(mockVisitService)
		v.On("Start", mock.Anything, testTenant, testUser, &testBranch, mock.MatchedBy(func(req attendanceapp.StartVisitRequest) bool {
			return req.ClientID == client
		})).Return(&attendanceapp.VisitResponse{ID: visit}, nil)
		v.On("End", mock.Anything, testTenant, testUser, visit, mock.Anything).Return(&attendanceapp.VisitResponse{ID: visit}, nil)
		r := attendanceEngine(nil, v, identity.RoleUser)

		w := do(r, http.MethodPost, "/check-ins", map[string]any{"client_id": client})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = do(r, http.MethodPost, "/check-ins/"+visit.String()+"/check-out", map[string]any{"notes": "done"})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		v.AssertExpectations(t)
	})

	t.Run("field users list only their own visits", func(t *testing.T) {
		v := new(mockVisitService)
		v.On("List", mock.Anything, testTenant, mock.MatchedBy(func(req attendanceapp.ListVisitsRequest) bool {
			return req.UserID != nil && *req.UserID == testUser
		})).Return([]attendanceapp.VisitResponse{}, int64(0), nil)

		w := do(attendanceEngine(nil, v, identity.RoleUser), http.MethodGet, "/check-ins?user_id="+uuid.NewString(), nil)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		v.AssertExpectations(t)
	})
}
