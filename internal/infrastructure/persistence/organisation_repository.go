package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/organisation"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrganisationRepository implements organisation.OrganisationRepository using GORM
type GormOrganisationRepository struct {
	db *gorm.DB
}

// NewGormOrganisationRepository creates a new GormOrganisationRepository
func NewGormOrganisationRepository(db *gorm.DB) *GormOrganisationRepository {
	return &GormOrganisationRepository{db: db}
}

// FindByID finds an organisation by ID, including soft-deleted ones
func (r *GormOrganisationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organisation.Organisation, error) {
	var m models.OrganisationModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists non-deleted organisations
func (r *GormOrganisationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*organisation.Organisation, int64, error) {
	query := conn(ctx, r.db).Model(&models.OrganisationModel{}).Scopes(notDeleted)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := validateSortField(filter.OrderBy, organisationSortFields, "created_at") + " " + validateSortOrder(filter.OrderDir)
	var rows []models.OrganisationModel
	if err := query.Order(order).Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*organisation.Organisation, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates an organisation
func (r *GormOrganisationRepository) Save(ctx context.Context, org *organisation.Organisation) error {
	return translate(conn(ctx, r.db).Save(models.OrganisationModelFromDomain(org)).Error)
}

// GormBranchRepository implements organisation.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID returns the branch regardless of the deleted flag
func (r *GormBranchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organisation.Branch, error) {
	var m models.BranchModel
	if err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByReferenceCode finds a branch by its code within the tenant
func (r *GormBranchRepository) FindByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (*organisation.Branch, error) {
	var m models.BranchModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).
		Where("reference_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists non-deleted branches of a tenant
func (r *GormBranchRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*organisation.Branch, int64, error) {
	query := conn(ctx, r.db).Model(&models.BranchModel{}).Scopes(tenantScope(tenantID), notDeleted)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(reference_code) LIKE ?", p, p)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := validateSortField(filter.OrderBy, branchSortFields, "created_at") + " " + validateSortOrder(filter.OrderDir)
	var rows []models.BranchModel
	if err := query.Order(order).Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*organisation.Branch, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsByReferenceCode checks code uniqueness within a tenant
func (r *GormBranchRepository) ExistsByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.BranchModel{}).Scopes(tenantScope(tenantID)).
		Where("reference_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

// CountActive counts non-deleted branches of a tenant
func (r *GormBranchRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.BranchModel{}).Scopes(tenantScope(tenantID), notDeleted).Count(&count).Error
	return count, err
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *organisation.Branch) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Save(models.BranchModelFromDomain(branch)).Error)
}

var (
	_ organisation.OrganisationRepository = (*GormOrganisationRepository)(nil)
	_ organisation.BranchRepository       = (*GormBranchRepository)(nil)
)
