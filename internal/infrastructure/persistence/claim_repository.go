package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormClaimRepository implements claim.ClaimRepository using GORM
type GormClaimRepository struct {
	db *gorm.DB
}

// NewGormClaimRepository creates a new GormClaimRepository
func NewGormClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// Save creates or updates a claim
func (r *GormClaimRepository) Save(ctx context.Context, c *claim.Claim) error {
	return translate(conn(ctx, r.db).Save(models.ClaimModelFromDomain(c)).Error)
}

// FindByID returns the claim even when soft-deleted
func (r *GormClaimRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*claim.Claim, error) {
	var m models.ClaimModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func applyClaimFilter(query *gorm.DB, filter claim.Filter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

// FindAll lists non-deleted claims
func (r *GormClaimRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter claim.Filter) ([]*claim.Claim, int64, error) {
	query := applyClaimFilter(conn(ctx, r.db).Model(&models.ClaimModel{}).Scopes(tenantScope(tenantID), notDeleted), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ClaimModel
	if err := query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*claim.Claim, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// Summarize sums non-deleted claims grouped by category and status
func (r *GormClaimRepository) Summarize(ctx context.Context, tenantID uuid.UUID, filter claim.Filter) ([]claim.SummaryRow, error) {
	var rows []struct {
		Category string
		Status   string
		Count    int64
		Total    decimal.Decimal
	}
	query := applyClaimFilter(conn(ctx, r.db).Model(&models.ClaimModel{}).Scopes(tenantScope(tenantID), notDeleted), filter)
	err := query.Select("category, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("category, status").
		Order("category, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]claim.SummaryRow, len(rows))
	for i, row := range rows {
		out[i] = claim.SummaryRow{
			Category: claim.Category(row.Category),
			Status:   claim.Status(row.Status),
			Count:    row.Count,
			Total:    row.Total,
		}
	}
	return out, nil
}

var _ claim.ClaimRepository = (*GormClaimRepository)(nil)
