package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/licensing"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLicenseRepository implements licensing.LicenseRepository using GORM
type GormLicenseRepository struct {
	db *gorm.DB
}

// NewGormLicenseRepository creates a new GormLicenseRepository
func NewGormLicenseRepository(db *gorm.DB) *GormLicenseRepository {
	return &GormLicenseRepository{db: db}
}

// Save creates or updates a license
func (r *GormLicenseRepository) Save(ctx context.Context, l *licensing.License) error {
	return translate(conn(ctx, r.db).Save(models.LicenseModelFromDomain(l)).Error)
}

// FindByID finds a license by ID
func (r *GormLicenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*licensing.License, error) {
	var m models.LicenseModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByKey finds a license by its key
func (r *GormLicenseRepository) FindByKey(ctx context.Context, key string) (*licensing.License, error) {
	var m models.LicenseModel
	if err := conn(ctx, r.db).Where("license_key = ?", strings.ToUpper(strings.TrimSpace(key))).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByOrganisation lists an organisation's licenses, latest expiry first
func (r *GormLicenseRepository) FindByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*licensing.License, error) {
	var rows []models.LicenseModel
	err := conn(ctx, r.db).Scopes(tenantScope(organisationID)).Order("valid_until DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLicenses(rows), nil
}

// FindAll lists licenses with pagination
func (r *GormLicenseRepository) FindAll(ctx context.Context, filter licensing.Filter) ([]*licensing.License, int64, error) {
	query := conn(ctx, r.db).Model(&models.LicenseModel{})
	if filter.OrganisationID != nil {
		query = query.Scopes(tenantScope(*filter.OrganisationID))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Plan != nil {
		query = query.Where("plan = ?", string(*filter.Plan))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.LicenseModel
	if err := query.Order("valid_until DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainLicenses(rows), total, nil
}

// FindExpiring returns active licenses whose valid_until is before now
func (r *GormLicenseRepository) FindExpiring(ctx context.Context, now time.Time) ([]*licensing.License, error) {
	var rows []models.LicenseModel
	err := conn(ctx, r.db).
		Where("status = ? AND valid_until < ?", string(licensing.StatusActive), now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLicenses(rows), nil
}

func toDomainLicenses(rows []models.LicenseModel) []*licensing.License {
	out := make([]*licensing.License, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ licensing.LicenseRepository = (*GormLicenseRepository)(nil)
