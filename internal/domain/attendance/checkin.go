package attendance

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// CheckIn is a visit to a client site
type CheckIn struct {
	shared.TenantAggregateRoot
	UserID           uuid.UUID
	ClientID         uuid.UUID
	BranchID         *uuid.UUID
	CheckInTime      time.Time
	CheckInLocation  *valueobject.Coordinates
	PhotoKey         string
	Notes            string
	CheckOutTime     *time.Time
	CheckOutLocation *valueobject.Coordinates
	DurationMinutes  int
}

// NewCheckIn starts a client visit
func NewCheckIn(tenantID, userID, clientID uuid.UUID, branchID *uuid.UUID, at time.Time, loc *valueobject.Coordinates, photoKey, notes string) (*CheckIn, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client is required")
	}
	c := &CheckIn{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		ClientID:            clientID,
		BranchID:            branchID,
		CheckInTime:         at,
		CheckInLocation:     loc,
		PhotoKey:            photoKey,
		Notes:               notes,
	}
	c.SetCreatedBy(userID)
	c.AddDomainEvent(NewClientVisitedEvent(c))
	return c, nil
}

// IsOpen reports whether the visit has not been checked out
func (c *CheckIn) IsOpen() bool {
	return c.CheckOutTime == nil
}

// CheckOut ends the visit
func (c *CheckIn) CheckOut(at time.Time, loc *valueobject.Coordinates, notes string) error {
	if !c.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Visit is already checked out")
	}
	if at.Before(c.CheckInTime) {
		return shared.NewDomainError("INVALID_CHECK_OUT", "Check-out cannot be before check-in")
	}
	c.CheckOutTime = &at
	c.CheckOutLocation = loc
	if notes != "" {
		c.Notes = notes
	}
	c.DurationMinutes = int(math.Floor(at.Sub(c.CheckInTime).Minutes()))
	c.IncrementVersion()
	return nil
}
