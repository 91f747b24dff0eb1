package crm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// QuotationStatus of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusApproved QuotationStatus = "APPROVED"
	QuotationStatusRejected QuotationStatus = "REJECTED"
)

var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationStatusDraft: {QuotationStatusSent, QuotationStatusRejected},
	QuotationStatusSent:  {QuotationStatusApproved, QuotationStatusRejected},
}

// QuotationItem is one priced line
type QuotationItem struct {
	ID          uuid.UUID
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// LineTotal is quantity times unit price
func (i QuotationItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Quotation is a priced offer to a client
type Quotation struct {
	shared.TenantAggregateRoot
	ClientID        uuid.UUID
	PreparedBy      uuid.UUID
	QuotationNumber string
	Items           []QuotationItem
	Currency        valueobject.Currency
	Total           decimal.Decimal
	Notes           string
	Status          QuotationStatus
}

// NewQuotation creates a draft quotation and computes its total
func NewQuotation(tenantID, clientID, preparedBy uuid.UUID, number string, currency valueobject.Currency, items []QuotationItem) (*Quotation, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_QUOTATION", "Quotation needs at least one item")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION", "Quotation number is required")
	}
	total := decimal.Zero
	for i := range items {
		if strings.TrimSpace(items[i].Description) == "" {
			return nil, shared.NewDomainError("INVALID_QUOTATION_ITEM", "Item description cannot be empty")
		}
		if items[i].Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUOTATION_ITEM", "Item quantity must be positive")
		}
		if items[i].UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUOTATION_ITEM", "Unit price cannot be negative")
		}
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		total = total.Add(items[i].LineTotal())
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	q := &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		PreparedBy:          preparedBy,
		QuotationNumber:     strings.TrimSpace(number),
		Items:               items,
		Currency:            currency,
		Total:               total,
		Status:              QuotationStatusDraft,
	}
	q.SetCreatedBy(preparedBy)
	q.AddDomainEvent(NewQuotationCreatedEvent(q))
	return q, nil
}

// TotalMoney returns the total as Money
func (q *Quotation) TotalMoney() valueobject.Money {
	m, err := valueobject.NewMoney(q.Total, q.Currency)
	if err != nil {
		return valueobject.Zero(q.Currency)
	}
	return m
}

// ChangeStatus moves the quotation through DRAFT -> SENT -> APPROVED/REJECTED
func (q *Quotation) ChangeStatus(status QuotationStatus) error {
	for _, allowed := range quotationTransitions[q.Status] {
		if allowed == status {
			q.Status = status
			q.IncrementVersion()
			q.AddDomainEvent(NewQuotationStatusChangedEvent(q))
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STATE", "Quotation cannot move from "+string(q.Status)+" to "+string(status))
}
