package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLeadRepository implements crm.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	return translate(conn(ctx, r.db).Save(models.LeadModelFromDomain(lead)).Error)
}

// FindByID returns the lead even when soft-deleted
func (r *GormLeadRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	var m models.LeadModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func applyLeadFilter(query *gorm.DB, filter crm.LeadFilter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.MinScore != nil {
		query = query.Where("score >= ?", *filter.MinScore)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

// FindAll lists non-deleted leads, highest score first
func (r *GormLeadRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.LeadFilter) ([]*crm.Lead, int64, error) {
	query := applyLeadFilter(conn(ctx, r.db).Model(&models.LeadModel{}).Scopes(tenantScope(tenantID), notDeleted), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.LeadModel
	if err := query.Order("score DESC, created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainLeads(rows), total, nil
}

// FindOpen lists non-deleted pending or in-review leads
func (r *GormLeadRepository) FindOpen(ctx context.Context, tenantID uuid.UUID) ([]*crm.Lead, error) {
	var rows []models.LeadModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID), notDeleted).
		Where("status IN ?", []string{string(crm.LeadStatusPending), string(crm.LeadStatusReview)}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLeads(rows), nil
}

// Summarize counts leads per status and averages their score
func (r *GormLeadRepository) Summarize(ctx context.Context, tenantID uuid.UUID, filter crm.LeadFilter) (*crm.LeadSummary, error) {
	var rows []struct {
		Status   string
		Count    int64
		ScoreSum int64
		Budget   decimal.Decimal
	}
	query := applyLeadFilter(conn(ctx, r.db).Model(&models.LeadModel{}).Scopes(tenantScope(tenantID), notDeleted), filter)
	err := query.Select("status, COUNT(*) AS count, COALESCE(SUM(score), 0) AS score_sum, COALESCE(SUM(budget), 0) AS budget").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &crm.LeadSummary{ByStatus: make(map[crm.LeadStatus]int64, len(rows)), TotalBudget: decimal.Zero}
	var count, scoreSum int64
	for _, row := range rows {
		summary.ByStatus[crm.LeadStatus(row.Status)] = row.Count
		summary.TotalBudget = summary.TotalBudget.Add(row.Budget)
		count += row.Count
		scoreSum += row.ScoreSum
	}
	if count > 0 {
		summary.AverageScore = float64(scoreSum) / float64(count)
	}
	return summary, nil
}

func toDomainLeads(rows []models.LeadModel) []*crm.Lead {
	out := make([]*crm.Lead, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ crm.LeadRepository = (*GormLeadRepository)(nil)
