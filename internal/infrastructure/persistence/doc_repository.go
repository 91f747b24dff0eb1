package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/document"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocRepository implements document.DocRepository using GORM
type GormDocRepository struct {
	db *gorm.DB
}

// NewGormDocRepository creates a new GormDocRepository
func NewGormDocRepository(db *gorm.DB) *GormDocRepository {
	return &GormDocRepository{db: db}
}

// Save creates or updates document metadata
func (r *GormDocRepository) Save(ctx context.Context, d *document.Doc) error {
	return translate(conn(ctx, r.db).Save(models.DocModelFromDomain(d)).Error)
}

// FindByID returns the document even when soft-deleted
func (r *GormDocRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*document.Doc, error) {
	var m models.DocModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists non-deleted documents
func (r *GormDocRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter document.Filter) ([]*document.Doc, int64, error) {
	query := conn(ctx, r.db).Model(&models.DocModel{}).Scopes(tenantScope(tenantID), notDeleted)
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(file_name) LIKE ?", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.DocModel
	if err := query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*document.Doc, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var _ document.DocRepository = (*GormDocRepository)(nil)
