package licensing

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/licensing"
)

// CreateLicenseRequest is the body of POST /licenses
type CreateLicenseRequest struct {
	OrganisationID uuid.UUID  `json:"organisation_id" binding:"required"`
	Plan           string     `json:"plan" binding:"required,oneof=STARTER PROFESSIONAL BUSINESS ENTERPRISE"`
	MaxUsers       int        `json:"max_users" binding:"omitempty,min=1"`
	MaxBranches    int        `json:"max_branches" binding:"omitempty,min=1"`
	ValidFrom      *time.Time `json:"valid_from"`
	Months         int        `json:"months" binding:"required,min=1,max=120"`
}

// ValidateLicenseRequest is the body of POST /licenses/validate
type ValidateLicenseRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
}

// RenewLicenseRequest is the body of POST /licenses/:id/renew
type RenewLicenseRequest struct {
	Months int `json:"months" binding:"required,min=1,max=120"`
}

// ListLicensesRequest holds the query of GET /licenses
type ListLicensesRequest struct {
	OrganisationID *uuid.UUID `form:"organisation_id,parser=encoding.TextUnmarshaler"`
	Status         string     `form:"status" binding:"omitempty,oneof=ACTIVE SUSPENDED EXPIRED"`
	Plan           string     `form:"plan"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LicenseResponse is the API view of a license
type LicenseResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganisationID uuid.UUID `json:"organisation_id"`
	LicenseKey     string    `json:"license_key"`
	Plan           string    `json:"plan"`
	MaxUsers       int       `json:"max_users"`
	MaxBranches    int       `json:"max_branches"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidUntil     time.Time `json:"valid_until"`
	Status         string    `json:"status"`
}

// ValidationResponse answers POST /licenses/validate
type ValidationResponse struct {
	Valid    bool             `json:"valid"`
	Reason   string           `json:"reason,omitempty"`
	Code     string           `json:"code,omitempty"`
	License  *LicenseResponse `json:"license,omitempty"`
	Users    int64            `json:"users"`
	Branches int64            `json:"branches"`
}

// ExpireResult summarises an ExpireLicenses run
type ExpireResult struct {
	Checked int `json:"checked"`
	Expired int `json:"expired"`
}

// ToLicenseResponse converts a domain license
func ToLicenseResponse(l *licensing.License) LicenseResponse {
	return LicenseResponse{
		ID:             l.ID,
		OrganisationID: l.TenantID,
		LicenseKey:     l.LicenseKey,
		Plan:           string(l.Plan),
		MaxUsers:       l.MaxUsers,
		MaxBranches:    l.MaxBranches,
		ValidFrom:      l.ValidFrom,
		ValidUntil:     l.ValidUntil,
		Status:         string(l.Status),
	}
}
