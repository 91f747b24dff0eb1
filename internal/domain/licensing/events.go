package licensing

import (
	"github.com/loro/backend/internal/domain/shared"
)

const (
	AggregateTypeLicense = "License"

	EventTypeLicenseStatusChanged = "LicenseStatusChanged"
)

// LicenseStatusChangedEvent is raised on issue, suspension, activation and expiry
type LicenseStatusChangedEvent struct {
	shared.BaseDomainEvent
	Plan Plan   `json:"plan"`
	From Status `json:"from,omitempty"`
	To   Status `json:"to"`
}

// NewLicenseStatusChangedEvent creates a new LicenseStatusChangedEvent
func NewLicenseStatusChangedEvent(l *License, from Status) *LicenseStatusChangedEvent {
	return &LicenseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLicenseStatusChanged, AggregateTypeLicense, l.ID, l.TenantID),
		Plan:            l.Plan,
		From:            from,
		To:              l.Status,
	}
}
