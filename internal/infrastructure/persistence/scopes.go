package persistence

import (
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// tenantScope restricts a query to one organisation
func tenantScope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// notDeleted excludes soft-deleted rows; lookups by primary key skip this scope
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// paginate applies page and page size after normalizing them
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	f := shared.Filter{Page: page, PageSize: pageSize}.Normalize(shared.DefaultPageSize)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(f.Offset()).Limit(f.PageSize)
	}
}

// likePattern escapes a user search term for LIKE
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(s))) + "%"
}

// validateSortOrder normalizes the sort direction to ASC or DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField returns field when whitelisted, otherwise the default
func validateSortField(field string, allowed map[string]bool, def string) string {
	if f := strings.TrimSpace(field); allowed[f] {
		return f
	}
	return def
}

var (
	organisationSortFields = map[string]bool{"created_at": true, "updated_at": true, "name": true, "status": true}
	branchSortFields       = map[string]bool{"created_at": true, "updated_at": true, "name": true, "reference_code": true}
)
