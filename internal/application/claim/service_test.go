package claim

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Save(ctx context.Context, c *claim.Claim) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClaimRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*claim.Claim, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claim.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter claim.Filter) ([]*claim.Claim, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*claim.Claim), args.Get(1).(int64), args.Error(2)
}

func (m *MockClaimRepository) Summarize(ctx context.Context, tenantID uuid.UUID, filter claim.Filter) ([]claim.SummaryRow, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]claim.SummaryRow), args.Error(1)
}

type eventSink struct{ types []string }

func (e *eventSink) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		e.types = append(e.types, ev.EventType())
	}
	return nil
}

func pendingClaim(t *testing.T, tenantID, userID uuid.UUID) *claim.Claim {
	t.Helper()
	c, err := claim.NewClaim(tenantID, userID, nil, decimal.NewFromInt(250), valueobject.ZAR, claim.CategoryMeals, "", "")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestClaimService_Create(t *testing.T) {
	repo := new(MockClaimRepository)
	sink := &eventSink{}
	svc := NewClaimService(repo, valueobject.USD, "en-US", sink, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*claim.Claim")).Return(nil)

	resp, err := svc.Create(context.Background(), uuid.New(), uuid.New(), nil, CreateClaimRequest{
		Amount:   decimal.RequireFromString("99.999"),
		Category: "TRAVEL",
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", resp.Amount)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, []string{claim.EventTypeClaimSubmitted}, sink.types)
}

func TestClaimService_Create_NonPositiveAmount(t *testing.T) {
	repo := new(MockClaimRepository)
	svc := NewClaimService(repo, "", "en-ZA", &eventSink{}, nil)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), nil, CreateClaimRequest{Amount: decimal.Zero})
	requireCode(t, err, "INVALID_AMOUNT")
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestClaimService_ChangeStatus(t *testing.T) {
	tenantID, owner, manager := uuid.New(), uuid.New(), uuid.New()

	t.Run("manager approves then pays", func(t *testing.T) {
		repo := new(MockClaimRepository)
		sink := &eventSink{}
		svc := NewClaimService(repo, "", "en-ZA", sink, nil)
		c := pendingClaim(t, tenantID, owner)
		repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil)

		resp, err := svc.ChangeStatus(context.Background(), tenantID, manager, identity.RoleManager, c.ID, ChangeClaimStatusRequest{Status: "APPROVED", Comment: "ok"})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, manager, *resp.ReviewedBy)

		resp, err = svc.ChangeStatus(context.Background(), tenantID, manager, identity.RoleAdmin, c.ID, ChangeClaimStatusRequest{Status: "PAID"})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
		assert.Equal(t, []string{claim.EventTypeClaimStatusChanged, claim.EventTypeClaimStatusChanged}, sink.types)
	})

	t.Run("paying a pending claim is invalid", func(t *testing.T) {
		repo := new(MockClaimRepository)
		svc := NewClaimService(repo, "", "en-ZA", &eventSink{}, nil)
		c := pendingClaim(t, tenantID, owner)
		repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)

		_, err := svc.ChangeStatus(context.Background(), tenantID, manager, identity.RoleManager, c.ID, ChangeClaimStatusRequest{Status: "PAID"})
		requireCode(t, err, "INVALID_STATE")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("user cannot review", func(t *testing.T) {
		repo := new(MockClaimRepository)
		svc := NewClaimService(repo, "", "en-ZA", &eventSink{}, nil)
		c := pendingClaim(t, tenantID, owner)
		repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)

		_, err := svc.ChangeStatus(context.Background(), tenantID, owner, identity.RoleUser, c.ID, ChangeClaimStatusRequest{Status: "APPROVED"})
		requireCode(t, err, "FORBIDDEN")
	})

	t.Run("only the claimant cancels", func(t *testing.T) {
		repo := new(MockClaimRepository)
		svc := NewClaimService(repo, "", "en-ZA", &eventSink{}, nil)
		c := pendingClaim(t, tenantID, owner)
		repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil)

		_, err := svc.ChangeStatus(context.Background(), tenantID, manager, identity.RoleAdmin, c.ID, ChangeClaimStatusRequest{Status: "CANCELLED"})
		requireCode(t, err, "FORBIDDEN")

		resp, err := svc.ChangeStatus(context.Background(), tenantID, owner, identity.RoleUser, c.ID, ChangeClaimStatusRequest{Status: "CANCELLED"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
		assert.Nil(t, resp.ReviewedBy)
	})
}

func TestClaimService_Delete(t *testing.T) {
	repo := new(MockClaimRepository)
	svc := NewClaimService(repo, "", "en-ZA", &eventSink{}, nil)
	tenantID := uuid.New()
	c := pendingClaim(t, tenantID, uuid.New())
	repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), tenantID, c.ID))
	resp, err := svc.GetByID(context.Background(), tenantID, c.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsDeleted)

	requireCode(t, svc.Delete(context.Background(), tenantID, c.ID), "ALREADY_DELETED")
}

func TestClaimService_List_PassesFilter(t *testing.T) {
	repo := new(MockClaimRepository)
	svc := NewClaimService(repo, "", "en-ZA", &eventSink{}, nil)
	tenantID := uuid.New()
	status := claim.StatusPending
	repo.On("FindAll", mock.Anything, tenantID, claim.Filter{Status: &status, Page: 2, PageSize: 10}).
		Return([]*claim.Claim{pendingClaim(t, tenantID, uuid.New())}, int64(11), nil)

	list, total, err := svc.List(context.Background(), tenantID, ListClaimsRequest{Status: "PENDING", Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(11), total)
}
