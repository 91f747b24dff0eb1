package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/application/common"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateClientRequest is the body of POST /clients
type CreateClientRequest struct {
	Name          string                  `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string                  `json:"contact_person" binding:"max=200"`
	Email         string                  `json:"email" binding:"omitempty,email"`
	Phone         string                  `json:"phone" binding:"max=30"`
	Address       common.AddressRequest   `json:"address" binding:"required"`
	Location      *common.LocationRequest `json:"location"`
	Category      string                  `json:"category" binding:"omitempty,oneof=STANDARD PREMIUM VIP WHOLESALE RETAIL"`
	BranchID      *uuid.UUID              `json:"branch_id"`
	AssignedRepID *uuid.UUID              `json:"assigned_rep_id"`
}

// UpdateClientRequest is the body of PUT /clients/:id
type UpdateClientRequest struct {
	Name          *string                 `json:"name" binding:"omitempty,min=1,max=200"`
	ContactPerson *string                 `json:"contact_person" binding:"omitempty,max=200"`
	Email         *string                 `json:"email" binding:"omitempty,email"`
	Phone         *string                 `json:"phone" binding:"omitempty,max=30"`
	Address       *common.AddressRequest  `json:"address"`
	Location      *common.LocationRequest `json:"location"`
	Category      *string                 `json:"category" binding:"omitempty,oneof=STANDARD PREMIUM VIP WHOLESALE RETAIL"`
	Status        *string                 `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE PROSPECT"`
	BranchID      *uuid.UUID              `json:"branch_id"`
	AssignedRepID *uuid.UUID              `json:"assigned_rep_id"`
}

// ListClientsRequest holds the query of GET /clients
type ListClientsRequest struct {
	Search        string     `form:"search" binding:"max=100"`
	Status        string     `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE PROSPECT"`
	Category      string     `form:"category" binding:"omitempty,oneof=STANDARD PREMIUM VIP WHOLESALE RETAIL"`
	BranchID      *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	AssignedRepID *uuid.UUID `form:"assigned_rep_id,parser=encoding.TextUnmarshaler"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ClientResponse is the API view of a client
type ClientResponse struct {
	ID            uuid.UUID                `json:"id"`
	BranchID      *uuid.UUID               `json:"branch_id,omitempty"`
	Name          string                   `json:"name"`
	ContactPerson string                   `json:"contact_person"`
	Email         string                   `json:"email"`
	Phone         string                   `json:"phone"`
	Address       common.AddressResponse   `json:"address"`
	Location      *valueobject.Coordinates `json:"location,omitempty"`
	Category      string                   `json:"category"`
	Status        string                   `json:"status"`
	AssignedRepID *uuid.UUID               `json:"assigned_rep_id,omitempty"`
	IsDeleted     bool                     `json:"is_deleted"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// ToClientResponse converts a domain client
func ToClientResponse(c *crm.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID,
		BranchID:      c.BranchID,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       common.ToAddressResponse(c.Address),
		Location:      c.Location,
		Category:      string(c.Category),
		Status:        string(c.Status),
		AssignedRepID: c.AssignedRepID,
		IsDeleted:     c.Deleted(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// CreateLeadRequest is the body of POST /leads
type CreateLeadRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Email       string           `json:"email" binding:"omitempty,email"`
	Phone       string           `json:"phone" binding:"max=30"`
	Notes       string           `json:"notes" binding:"max=2000"`
	Source      string           `json:"source" binding:"omitempty,oneof=REFERRAL WEBSITE WALK_IN COLD_CALL SOCIAL_MEDIA EVENT OTHER"`
	Temperature string           `json:"temperature" binding:"omitempty,oneof=HOT WARM COLD"`
	Budget      *decimal.Decimal `json:"budget"`
	BranchID    *uuid.UUID       `json:"branch_id"`
}

// UpdateLeadRequest is the body of PUT /leads/:id
type UpdateLeadRequest struct {
	Temperature *string          `json:"temperature" binding:"omitempty,oneof=HOT WARM COLD"`
	Budget      *decimal.Decimal `json:"budget"`
	Notes       *string          `json:"notes" binding:"omitempty,max=2000"`
	Status      *string          `json:"status" binding:"omitempty,oneof=REVIEW DECLINED"`
	// RecordActivity counts a call, visit or email against the lead
	RecordActivity bool `json:"record_activity"`
}

// ConvertLeadRequest is the body of POST /leads/:id/convert
type ConvertLeadRequest struct {
	Address  common.AddressRequest `json:"address" binding:"required"`
	Category string                `json:"category" binding:"omitempty,oneof=STANDARD PREMIUM VIP WHOLESALE RETAIL"`
}

// ListLeadsRequest holds the query of GET /leads
type ListLeadsRequest struct {
	Search   string     `form:"search" binding:"max=100"`
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING REVIEW CONVERTED DECLINED"`
	OwnerID  *uuid.UUID `form:"owner_id,parser=encoding.TextUnmarshaler"`
	BranchID *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	MinScore *int       `form:"min_score" binding:"omitempty,min=0,max=100"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LeadResponse is the API view of a lead
type LeadResponse struct {
	ID             uuid.UUID       `json:"id"`
	BranchID       *uuid.UUID      `json:"branch_id,omitempty"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	ClientID       *uuid.UUID      `json:"client_id,omitempty"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Notes          string          `json:"notes"`
	Source         string          `json:"source"`
	Temperature    string          `json:"temperature"`
	Status         string          `json:"status"`
	Budget         decimal.Decimal `json:"budget"`
	ActivityCount  int             `json:"activity_count"`
	LastActivityAt *time.Time      `json:"last_activity_at,omitempty"`
	Score          int             `json:"score"`
	ScoredAt       *time.Time      `json:"scored_at,omitempty"`
	IsDeleted      bool            `json:"is_deleted"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToLeadResponse converts a domain lead
func ToLeadResponse(l *crm.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		BranchID:       l.BranchID,
		OwnerID:        l.OwnerID,
		ClientID:       l.ClientID,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Notes:          l.Notes,
		Source:         string(l.Source),
		Temperature:    string(l.Temperature),
		Status:         string(l.Status),
		Budget:         l.Budget,
		ActivityCount:  l.ActivityCount,
		LastActivityAt: l.LastActivityAt,
		Score:          l.Score,
		ScoredAt:       l.ScoredAt,
		IsDeleted:      l.Deleted(),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ScoreResponse is the result of POST /leads/:id/score
type ScoreResponse struct {
	LeadID    uuid.UUID          `json:"lead_id"`
	Breakdown crm.ScoreBreakdown `json:"breakdown"`
}

// ConvertLeadResponse carries the converted lead and the new client
type ConvertLeadResponse struct {
	Lead   LeadResponse   `json:"lead"`
	Client ClientResponse `json:"client"`
}

// RescoreResult summarises a RescoreAll run
type RescoreResult struct {
	Scored  int `json:"scored"`
	Changed int `json:"changed"`
}

// QuotationItemRequest is one line of a quotation
type QuotationItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateQuotationRequest is the body of POST /quotations
type CreateQuotationRequest struct {
	ClientID uuid.UUID              `json:"client_id" binding:"required"`
	Items    []QuotationItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes    string                 `json:"notes" binding:"max=2000"`
}

// ChangeQuotationStatusRequest is the body of PATCH /quotations/:id/status
type ChangeQuotationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SENT APPROVED REJECTED"`
}

// ListQuotationsRequest holds the query of GET /quotations
type ListQuotationsRequest struct {
	ClientID *uuid.UUID `form:"client_id,parser=encoding.TextUnmarshaler"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT SENT APPROVED REJECTED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// QuotationItemResponse is one priced line
type QuotationItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// QuotationResponse is the API view of a quotation
type QuotationResponse struct {
	ID              uuid.UUID               `json:"id"`
	QuotationNumber string                  `json:"quotation_number"`
	ClientID        uuid.UUID               `json:"client_id"`
	PreparedBy      uuid.UUID               `json:"prepared_by"`
	Items           []QuotationItemResponse `json:"items"`
	Currency        string                  `json:"currency"`
	Total           decimal.Decimal         `json:"total"`
	TotalFormatted  string                  `json:"total_formatted"`
	Notes           string                  `json:"notes"`
	Status          string                  `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToQuotationResponse converts a domain quotation; locale drives TotalFormatted
func ToQuotationResponse(q *crm.Quotation, locale string) QuotationResponse {
	items := make([]QuotationItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuotationItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}
	return QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ClientID:        q.ClientID,
		PreparedBy:      q.PreparedBy,
		Items:           items,
		Currency:        string(q.Currency),
		Total:           q.Total,
		TotalFormatted:  q.TotalMoney().Format(locale),
		Notes:           q.Notes,
		Status:          string(q.Status),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}
