package claim

import (
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/claim"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateClaimRequest is the body of POST /claims
type CreateClaimRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Category      string          `json:"category" binding:"omitempty,oneof=GENERAL TRAVEL TRANSPORT ACCOMMODATION MEALS ENTERTAINMENT OTHER"`
	Comments      string          `json:"comments" binding:"max=2000"`
	AttachmentKey string          `json:"attachment_key" binding:"max=500"`
}

// ChangeClaimStatusRequest is the body of PATCH /claims/:id/status
type ChangeClaimStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=APPROVED DECLINED PAID CANCELLED"`
	Comment string `json:"comment" binding:"max=1000"`
}

// ListClaimsRequest holds the query of GET /claims
type ListClaimsRequest struct {
	UserID   *uuid.UUID `form:"user_id,parser=encoding.TextUnmarshaler"`
	BranchID *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	Status   string     `form:"status"`
	Category string     `form:"category"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ClaimResponse is the API view of a claim
type ClaimResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	BranchID        *uuid.UUID `json:"branch_id,omitempty"`
	Amount          string     `json:"amount"`
	AmountFormatted string     `json:"amount_formatted"`
	Currency        string     `json:"currency"`
	Category        string     `json:"category"`
	Comments        string     `json:"comments,omitempty"`
	AttachmentKey   string     `json:"attachment_key,omitempty"`
	Status          string     `json:"status"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewComment   string     `json:"review_comment,omitempty"`
	IsDeleted       bool       `json:"is_deleted"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToClaimResponse converts a domain claim; locale drives AmountFormatted
func ToClaimResponse(c *claim.Claim, locale string) ClaimResponse {
	return ClaimResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		BranchID:        c.BranchID,
		Amount:          c.Amount.StringFixed(2),
		AmountFormatted: formatAmount(c, locale),
		Currency:        string(c.Currency),
		Category:        string(c.Category),
		Comments:        c.Comments,
		AttachmentKey:   c.AttachmentKey,
		Status:          string(c.Status),
		ReviewedBy:      c.ReviewedBy,
		ReviewComment:   c.ReviewComment,
		IsDeleted:       c.Deleted(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func formatAmount(c *claim.Claim, locale string) string {
	m, err := valueobject.NewMoney(c.Amount, c.Currency)
	if err != nil {
		return c.Amount.StringFixed(2) + " " + string(c.Currency)
	}
	return m.Format(locale)
}
