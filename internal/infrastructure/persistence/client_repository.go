package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements crm.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *crm.Client) error {
	return translate(conn(ctx, r.db).Save(models.ClientModelFromDomain(client)).Error)
}

// FindByID returns the client even when soft-deleted
func (r *GormClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Client, error) {
	var m models.ClientModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads several clients; missing IDs are skipped
func (r *GormClientRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*crm.Client, error) {
	if len(ids) == 0 {
		return []*crm.Client{}, nil
	}
	var rows []models.ClientModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*crm.Client, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindAll lists non-deleted clients
func (r *GormClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.ClientFilter) ([]*crm.Client, int64, error) {
	query := conn(ctx, r.db).Model(&models.ClientModel{}).Scopes(tenantScope(tenantID), notDeleted)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(contact_person) LIKE ?", p, p, p)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.AssignedRepID != nil {
		query = query.Where("assigned_rep_id = ?", *filter.AssignedRepID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ClientModel
	if err := query.Order("name ASC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*crm.Client, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// UpdateLocation stores geocoded coordinates without bumping the version
func (r *GormClientRepository) UpdateLocation(ctx context.Context, tenantID, id uuid.UUID, lat, lng float64) error {
	res := conn(ctx, r.db).Model(&models.ClientModel{}).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"latitude": lat, "longitude": lng})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

var _ crm.ClientRepository = (*GormClientRepository)(nil)
