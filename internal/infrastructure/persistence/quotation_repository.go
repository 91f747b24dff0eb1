package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuotationRepository implements crm.QuotationRepository using GORM
type GormQuotationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db, now: time.Now}
}

// Save creates or updates a quotation and replaces its items
func (r *GormQuotationRepository) Save(ctx context.Context, q *crm.Quotation) error {
	m := models.QuotationModelFromDomain(q)
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("quotation_id = ?", q.ID).Delete(&models.QuotationItemModel{}).Error; err != nil {
			return err
		}
		if len(m.Items) == 0 {
			return nil
		}
		return translate(tx.Create(&m.Items).Error)
	})
}

// FindByID finds a quotation with its items
func (r *GormQuotationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Quotation, error) {
	var m models.QuotationModel
	err := conn(ctx, r.db).Scopes(tenantScope(tenantID)).Preload("Items").Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists quotations, newest first
func (r *GormQuotationRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.QuotationFilter) ([]*crm.Quotation, int64, error) {
	query := conn(ctx, r.db).Model(&models.QuotationModel{}).Scopes(tenantScope(tenantID))
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.QuotationModel
	err := query.Preload("Items").Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]*crm.Quotation, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// NextNumber returns QUO-<year>-<seq> where seq counts the tenant's quotations of that year
func (r *GormQuotationRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := r.now().Year()
	prefix := fmt.Sprintf("QUO-%d-", year)
	var count int64
	err := conn(ctx, r.db).Model(&models.QuotationModel{}).
		Scopes(tenantScope(tenantID)).
		Where("quotation_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

var _ crm.QuotationRepository = (*GormQuotationRepository)(nil)
