package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, name string) *crm.Client {
	t.Helper()
	addr, err := valueobject.NewAddress("10 Loop St", "Cape Town", valueobject.WithCountry("South Africa"))
	require.NoError(t, err)
	c, err := crm.NewClient(testTenant, name, "info@example.com", addr)
	require.NoError(t, err)
	return c
}

func TestGormClientRepository(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	acme := newTestClient(t, "Acme")
	globex := newTestClient(t, "Globex")
	require.NoError(t, repo.Save(bg(), acme))
	require.NoError(t, repo.Save(bg(), globex))

	t.Run("update location keeps version", func(t *testing.T) {
		require.NoError(t, repo.UpdateLocation(bg(), testTenant, acme.ID, -33.92, 18.42))
		found, err := repo.FindByID(bg(), testTenant, acme.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Location)
		assert.InDelta(t, -33.92, found.Location.Lat, 1e-9)
		assert.Equal(t, acme.Version, found.Version)
	})

	t.Run("update location of unknown client", func(t *testing.T) {
		requireNotFound(t, repo.UpdateLocation(bg(), testTenant, uuid.New(), 1, 1))
	})

	t.Run("find by ids skips missing", func(t *testing.T) {
		list, err := repo.FindByIDs(bg(), testTenant, []uuid.UUID{acme.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Acme", list[0].Name)
	})

	t.Run("deleted clients are hidden from lists", func(t *testing.T) {
		require.NoError(t, globex.Delete())
		require.NoError(t, repo.Save(bg(), globex))

		list, total, err := repo.FindAll(bg(), testTenant, crm.ClientFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, acme.ID, list[0].ID)

		found, err := repo.FindByID(bg(), testTenant, globex.ID)
		require.NoError(t, err)
		assert.True(t, found.Deleted())
	})
}

func TestGormLeadRepository_Summarize(t *testing.T) {
	repo := NewGormLeadRepository(setupTestDB(t))
	owner := uuid.New()

	hot, err := crm.NewLead(testTenant, owner, "Hot lead", "hot@example.com", "", crm.LeadSourceReferral)
	require.NoError(t, err)
	hot.Budget = decimal.NewFromInt(50000)
	hot.Score = 80
	cold, err := crm.NewLead(testTenant, owner, "Cold lead", "", "+27821234567", crm.LeadSourceColdCall)
	require.NoError(t, err)
	cold.Score = 20
	require.NoError(t, cold.Decline())

	require.NoError(t, repo.Save(bg(), hot))
	require.NoError(t, repo.Save(bg(), cold))

	summary, err := repo.Summarize(bg(), testTenant, crm.LeadFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ByStatus[crm.LeadStatusPending])
	assert.Equal(t, int64(1), summary.ByStatus[crm.LeadStatusDeclined])
	assert.InDelta(t, 50.0, summary.AverageScore, 0.001)
	assert.True(t, summary.TotalBudget.Equal(decimal.NewFromInt(50000)))

	open, err := repo.FindOpen(bg(), testTenant)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, hot.ID, open[0].ID)

	list, _, err := repo.FindAll(bg(), testTenant, crm.LeadFilter{MinScore: ptr(50)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, hot.ID, list[0].ID)
}

func TestGormQuotationRepository(t *testing.T) {
	repo := NewGormQuotationRepository(setupTestDB(t))
	clientID := uuid.New()

	number, err := repo.NextNumber(bg(), testTenant)
	require.NoError(t, err)

	items := []crm.QuotationItem{
		{ID: uuid.New(), Description: "Install", Quantity: 1, UnitPrice: decimal.RequireFromString("1500.00")},
		{ID: uuid.New(), Description: "Cable", Quantity: 20, UnitPrice: decimal.RequireFromString("12.50")},
	}
	q, err := crm.NewQuotation(testTenant, clientID, uuid.New(), number, valueobject.ZAR, items)
	require.NoError(t, err)
	require.NoError(t, repo.Save(bg(), q))

	found, err := repo.FindByID(bg(), testTenant, q.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Install", found.Items[0].Description)
	assert.Equal(t, "Cable", found.Items[1].Description)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("1750")))

	next, err := repo.NextNumber(bg(), testTenant)
	require.NoError(t, err)
	assert.NotEqual(t, number, next)
	assert.Contains(t, next, "00002")
}
