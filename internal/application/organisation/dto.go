package organisation

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/organisation"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// CreateOrganisationRequest is the body of POST /organisations
type CreateOrganisationRequest struct {
	Name    string                 `json:"name" binding:"required,min=1,max=200"`
	Email   string                 `json:"email" binding:"omitempty,email"`
	Phone   string                 `json:"phone" binding:"max=30"`
	Website string                 `json:"website" binding:"omitempty,url"`
	Logo    string                 `json:"logo" binding:"max=500"`
	Address *common.AddressRequest `json:"address"`
}

// UpdateOrganisationRequest is the body of PUT /organisations/:id
type UpdateOrganisationRequest struct {
	Name    *string                `json:"name" binding:"omitempty,min=1,max=200"`
	Email   *string                `json:"email" binding:"omitempty,email"`
	Phone   *string                `json:"phone" binding:"omitempty,max=30"`
	Website *string                `json:"website" binding:"omitempty,url"`
	Logo    *string                `json:"logo" binding:"omitempty,max=500"`
	Address *common.AddressRequest `json:"address"`
	Status  *string                `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// OrganisationResponse is the API view of an organisation
type OrganisationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Name      string                  `json:"name"`
	Email     string                  `json:"email"`
	Phone     string                  `json:"phone"`
	Website   string                  `json:"website"`
	Logo      string                  `json:"logo"`
	Address   *common.AddressResponse `json:"address,omitempty"`
	Status    string                  `json:"status"`
	IsDeleted bool                    `json:"is_deleted"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// CreateBranchRequest is the body of POST /branches
type CreateBranchRequest struct {
	Name          string                  `json:"name" binding:"required,min=1,max=200"`
	ReferenceCode string                  `json:"reference_code" binding:"required,min=2,max=32"`
	Email         string                  `json:"email" binding:"omitempty,email"`
	Phone         string                  `json:"phone" binding:"max=30"`
	Address       common.AddressRequest   `json:"address" binding:"required"`
	Location      *common.LocationRequest `json:"location"`
}

// UpdateBranchRequest is the body of PUT /branches/:id
type UpdateBranchRequest struct {
	Name     *string                 `json:"name" binding:"omitempty,min=1,max=200"`
	Email    *string                 `json:"email" binding:"omitempty,email"`
	Phone    *string                 `json:"phone" binding:"omitempty,max=30"`
	Address  *common.AddressRequest  `json:"address"`
	Location *common.LocationRequest `json:"location"`
	Status   *string                 `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// BranchResponse is the API view of a branch
type BranchResponse struct {
	ID             uuid.UUID                `json:"id"`
	OrganisationID uuid.UUID                `json:"organisation_id"`
	Name           string                   `json:"name"`
	ReferenceCode  string                   `json:"reference_code"`
	Email          string                   `json:"email"`
	Phone          string                   `json:"phone"`
	Address        common.AddressResponse   `json:"address"`
	Location       *valueobject.Coordinates `json:"location,omitempty"`
	Status         string                   `json:"status"`
	IsDeleted      bool                     `json:"is_deleted"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// ToOrganisationResponse converts a domain organisation
func ToOrganisationResponse(o *organisation.Organisation) OrganisationResponse {
	resp := OrganisationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Email:     o.Email,
		Phone:     o.Phone,
		Website:   o.Website,
		Logo:      o.Logo,
		Status:    string(o.Status),
		IsDeleted: o.Deleted(),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if !o.Address.IsEmpty() {
		addr := common.ToAddressResponse(o.Address)
		resp.Address = &addr
	}
	return resp
}

// ToBranchResponse converts a domain branch
func ToBranchResponse(b *organisation.Branch) BranchResponse {
	return BranchResponse{
		ID:             b.ID,
		OrganisationID: b.TenantID,
		Name:           b.Name,
		ReferenceCode:  b.ReferenceCode,
		Email:          b.Email,
		Phone:          b.Phone,
		Address:        common.ToAddressResponse(b.Address),
		Location:       b.Location,
		Status:         string(b.Status),
		IsDeleted:      b.Deleted(),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
