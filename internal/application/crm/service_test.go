package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Save(ctx context.Context, c *crm.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*crm.Client, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.ClientFilter) ([]*crm.Client, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*crm.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) UpdateLocation(ctx context.Context, tenantID, id uuid.UUID, lat, lng float64) error {
	return m.Called(ctx, tenantID, id, lat, lng).Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Save(ctx context.Context, l *crm.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.LeadFilter) ([]*crm.Lead, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*crm.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeadRepository) FindOpen(ctx context.Context, tenantID uuid.UUID) ([]*crm.Lead, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) Summarize(ctx context.Context, tenantID uuid.UUID, filter crm.LeadFilter) (*crm.LeadSummary, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(*crm.LeadSummary), args.Error(1)
}

type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *crm.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Quotation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.QuotationFilter) ([]*crm.Quotation, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*crm.Quotation), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuotationRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type stubGeocoder struct {
	loc   valueobject.Coordinates
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(context.Context, string) (valueobject.Coordinates, error) {
	g.calls++
	return g.loc, g.err
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type eventSink struct{ types []string }

func (e *eventSink) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		e.types = append(e.types, ev.EventType())
	}
	return nil
}

func address() common.AddressRequest {
	return common.AddressRequest{Street: "12 Loop St", City: "Cape Town", Country: "ZA"}
}

func newClient(t *testing.T, tenantID uuid.UUID) *crm.Client {
	t.Helper()
	addr, err := address().ToAddress()
	require.NoError(t, err)
	c, err := crm.NewClient(tenantID, "Spar Gardens", "orders@spar.test", addr)
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestClientService_Create_Geocodes(t *testing.T) {
	repo := new(MockClientRepository)
	geo := &stubGeocoder{loc: valueobject.Coordinates{Lat: -33.92, Lng: 18.42}}
	sink := &eventSink{}
	svc := NewClientService(repo, geo, sink, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Client")).Return(nil)

	resp, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateClientRequest{
		Name:     "Spar Gardens",
		Address:  address(),
		Category: "VIP",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, geo.calls)
	require.NotNil(t, resp.Location)
	assert.InDelta(t, 18.42, resp.Location.Lng, 1e-9)
	assert.Equal(t, "VIP", resp.Category)
	assert.Equal(t, []string{crm.EventTypeClientCreated}, sink.types)
}

func TestClientService_Create_GeocodeFailureStillSaves(t *testing.T) {
	repo := new(MockClientRepository)
	geo := &stubGeocoder{err: errors.New("ZERO_RESULTS")}
	svc := NewClientService(repo, geo, nil, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateClientRequest{Name: "Nowhere", Address: address()})
	require.NoError(t, err)
	assert.Nil(t, resp.Location)
}

func TestClientService_Create_GivenLocationSkipsGeocoder(t *testing.T) {
	repo := new(MockClientRepository)
	geo := &stubGeocoder{}
	svc := NewClientService(repo, geo, nil, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateClientRequest{
		Name:     "Pinned",
		Address:  address(),
		Location: &common.LocationRequest{Lat: -26.2, Lng: 28.04},
	})
	require.NoError(t, err)
	assert.Zero(t, geo.calls)
}

func TestClientService_Update_RelocationDropsLocation(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, nil, nil)
	tenantID := uuid.New()
	c := newClient(t, tenantID)
	c.SetLocation(valueobject.Coordinates{Lat: 1, Lng: 1})
	repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)

	resp, err := svc.Update(context.Background(), tenantID, c.ID, UpdateClientRequest{
		Address: &common.AddressRequest{Street: "1 New Rd", City: "Paarl"},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Location)
	assert.Equal(t, "Paarl", resp.Address.City)
}

func TestClientService_DeleteThenGet(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, nil, nil)
	tenantID := uuid.New()
	c := newClient(t, tenantID)
	repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), tenantID, c.ID))
	got, err := svc.GetByID(context.Background(), tenantID, c.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func newLeadService(leads *MockLeadRepository, clients *MockClientRepository, sink *eventSink) *LeadService {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	scorer := crm.NewLeadScoringService(crm.DefaultScoreWeights).WithClock(func() time.Time { return now })
	svc := NewLeadService(leads, clients, scorer, passthroughTx{}, sink, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestLeadService_CreateScores(t *testing.T) {
	leads := new(MockLeadRepository)
	svc := newLeadService(leads, new(MockClientRepository), &eventSink{})
	leads.On("Save", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)

	budget := decimal.NewFromInt(150000)
	hot, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateLeadRequest{
		Name: "Hot lead", Email: "hot@lead.test", Source: "REFERRAL", Temperature: "HOT", Budget: &budget,
	})
	require.NoError(t, err)
	cold, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateLeadRequest{
		Name: "Cold lead", Phone: "0820000000",
	})
	require.NoError(t, err)

	assert.NotNil(t, hot.ScoredAt)
	assert.Greater(t, hot.Score, cold.Score)
	assert.LessOrEqual(t, hot.Score, 100)
	assert.GreaterOrEqual(t, cold.Score, 0)
}

func TestLeadService_Convert(t *testing.T) {
	leads := new(MockLeadRepository)
	clients := new(MockClientRepository)
	sink := &eventSink{}
	svc := newLeadService(leads, clients, sink)
	tenantID, owner := uuid.New(), uuid.New()
	l, err := crm.NewLead(tenantID, owner, "Kwik Stop", "info@kwik.test", "021 555", crm.LeadSourceWebsite)
	require.NoError(t, err)
	l.ClearDomainEvents()

	leads.On("FindByID", mock.Anything, tenantID, l.ID).Return(l, nil)
	clients.On("Save", mock.Anything, mock.AnythingOfType("*crm.Client")).Return(nil)
	leads.On("Save", mock.Anything, l).Return(nil)

	resp, err := svc.Convert(context.Background(), tenantID, uuid.New(), l.ID, ConvertLeadRequest{Address: address()})
	require.NoError(t, err)
	assert.Equal(t, "CONVERTED", resp.Lead.Status)
	require.NotNil(t, resp.Lead.ClientID)
	assert.Equal(t, resp.Client.ID, *resp.Lead.ClientID)
	assert.Equal(t, &owner, resp.Client.AssignedRepID)
	assert.Equal(t, "021 555", resp.Client.Phone)
	assert.Contains(t, sink.types, crm.EventTypeLeadConverted)
	assert.Contains(t, sink.types, crm.EventTypeClientCreated)

	_, err = svc.Convert(context.Background(), tenantID, uuid.New(), l.ID, ConvertLeadRequest{Address: address()})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestLeadService_Convert_SaveFailurePublishesNothing(t *testing.T) {
	leads := new(MockLeadRepository)
	clients := new(MockClientRepository)
	sink := &eventSink{}
	svc := newLeadService(leads, clients, sink)
	tenantID := uuid.New()
	l, err := crm.NewLead(tenantID, uuid.New(), "Kwik Stop", "info@kwik.test", "", "")
	require.NoError(t, err)
	l.ClearDomainEvents()

	leads.On("FindByID", mock.Anything, tenantID, l.ID).Return(l, nil)
	clients.On("Save", mock.Anything, mock.Anything).Return(errors.New("unique violation"))

	_, err = svc.Convert(context.Background(), tenantID, uuid.New(), l.ID, ConvertLeadRequest{Address: address()})
	require.Error(t, err)
	assert.Empty(t, sink.types)
	leads.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeadService_RescoreAll(t *testing.T) {
	leads := new(MockLeadRepository)
	svc := newLeadService(leads, new(MockClientRepository), nil)
	tenantID := uuid.New()

	a, err := crm.NewLead(tenantID, uuid.New(), "A", "a@lead.test", "", crm.LeadSourceReferral)
	require.NoError(t, err)
	b, err := crm.NewLead(tenantID, uuid.New(), "B", "b@lead.test", "", crm.LeadSourceEvent)
	require.NoError(t, err)

	leads.On("FindOpen", mock.Anything, tenantID).Return([]*crm.Lead{a, b}, nil)
	leads.On("Save", mock.Anything, a).Return(nil)
	leads.On("Save", mock.Anything, b).Return(errors.New("locked"))

	res, err := svc.RescoreAll(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scored)
	assert.NotNil(t, a.ScoredAt)
}

func TestLeadService_UpdateStatus(t *testing.T) {
	leads := new(MockLeadRepository)
	svc := newLeadService(leads, new(MockClientRepository), nil)
	tenantID := uuid.New()
	l, err := crm.NewLead(tenantID, uuid.New(), "A", "a@lead.test", "", "")
	require.NoError(t, err)
	leads.On("FindByID", mock.Anything, tenantID, l.ID).Return(l, nil)
	leads.On("Save", mock.Anything, l).Return(nil)

	review := "REVIEW"
	resp, err := svc.Update(context.Background(), tenantID, l.ID, UpdateLeadRequest{Status: &review, RecordActivity: true})
	require.NoError(t, err)
	assert.Equal(t, "REVIEW", resp.Status)
	assert.Equal(t, 1, resp.ActivityCount)

	_, err = svc.Update(context.Background(), tenantID, l.ID, UpdateLeadRequest{Status: &review})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestQuotationService_Create(t *testing.T) {
	quotes := new(MockQuotationRepository)
	clients := new(MockClientRepository)
	sink := &eventSink{}
	svc := NewQuotationService(quotes, clients, valueobject.ZAR, "en-ZA", sink, nil)
	tenantID := uuid.New()
	c := newClient(t, tenantID)

	clients.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
	quotes.On("NextNumber", mock.Anything, tenantID).Return("QUO-000042", nil)
	quotes.On("Save", mock.Anything, mock.AnythingOfType("*crm.Quotation")).Return(nil)

	resp, err := svc.Create(context.Background(), tenantID, uuid.New(), CreateQuotationRequest{
		ClientID: c.ID,
		Items: []QuotationItemRequest{
			{Description: "Installation", Quantity: 2, UnitPrice: decimal.RequireFromString("1250.50")},
			{Description: "Call-out", Quantity: 1, UnitPrice: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "QUO-000042", resp.QuotationNumber)
	assert.True(t, decimal.RequireFromString("2801").Equal(resp.Total))
	assert.Equal(t, "ZAR", resp.Currency)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Equal(t, []string{crm.EventTypeQuotationCreated}, sink.types)
}

func TestQuotationService_Create_UnknownClient(t *testing.T) {
	quotes := new(MockQuotationRepository)
	clients := new(MockClientRepository)
	svc := NewQuotationService(quotes, clients, "", "", nil, nil)
	tenantID, id := uuid.New(), uuid.New()
	clients.On("FindByID", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.Create(context.Background(), tenantID, uuid.New(), CreateQuotationRequest{
		ClientID: id,
		Items:    []QuotationItemRequest{{Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.True(t, shared.IsNotFound(err))
	quotes.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything)
}

func TestQuotationService_ChangeStatus(t *testing.T) {
	quotes := new(MockQuotationRepository)
	svc := NewQuotationService(quotes, new(MockClientRepository), "", "", nil, nil)
	tenantID := uuid.New()
	q, err := crm.NewQuotation(tenantID, uuid.New(), uuid.New(), "QUO-1", valueobject.ZAR,
		[]crm.QuotationItem{{Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}})
	require.NoError(t, err)
	quotes.On("FindByID", mock.Anything, tenantID, q.ID).Return(q, nil)
	quotes.On("Save", mock.Anything, q).Return(nil)

	_, err = svc.ChangeStatus(context.Background(), tenantID, q.ID, ChangeQuotationStatusRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err := svc.ChangeStatus(context.Background(), tenantID, q.ID, ChangeQuotationStatusRequest{Status: "SENT"})
	require.NoError(t, err)
	assert.Equal(t, "SENT", resp.Status)
}
