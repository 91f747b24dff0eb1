package reward

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared"
)

// Value stores the breakdown in the xp_transactions.breakdown JSON column
func (b Breakdown) Value() (driver.Value, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner
func (b *Breakdown) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*b = Breakdown{}
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("cannot scan %T into Breakdown", value)
	}
}

// CategoryXP holds XP totals per category
type CategoryXP map[Category]int

// Value implements driver.Valuer
func (c CategoryXP) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *CategoryXP) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = CategoryXP{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CategoryXP", value)
	}
	m := CategoryXP{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*c = m
	return nil
}

// UserRewards is a user's running XP balance
type UserRewards struct {
	shared.TenantAggregateRoot
	UserID       uuid.UUID
	TotalXP      int
	CurrentLevel int
	Rank         Rank
	XPByCategory CategoryXP
}

// NewUserRewards starts a user at level 1
func NewUserRewards(tenantID, userID uuid.UUID) *UserRewards {
	return &UserRewards{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		CurrentLevel:        1,
		Rank:                RankRookie,
		XPByCategory:        CategoryXP{},
	}
}

// Award applies an XP transaction and recomputes level and rank
func (r *UserRewards) Award(tx *XPTransaction) {
	if r.XPByCategory == nil {
		r.XPByCategory = CategoryXP{}
	}
	previous := r.CurrentLevel
	r.TotalXP += tx.XP
	r.XPByCategory[tx.Breakdown.Category] += tx.XP
	r.CurrentLevel = LevelFor(r.TotalXP)
	r.Rank = RankFor(r.CurrentLevel)
	r.IncrementVersion()
	if r.CurrentLevel > previous {
		r.AddDomainEvent(NewLevelUpEvent(r, previous))
	}
}

// XPTransaction is one award entry
type XPTransaction struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	UserID      uuid.UUID
	Action      Action
	XP          int
	Breakdown   Breakdown
	ReferenceID *uuid.UUID
	CreatedAt   time.Time
}

// NewXPTransaction computes the XP for action and returns the entry
func NewXPTransaction(tenantID, userID uuid.UUID, action Action, bonus Bonus, referenceID *uuid.UUID, createdAt time.Time) (*XPTransaction, error) {
	b, ok := Calculate(action, bonus)
	if !ok {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown XP action "+string(action))
	}
	return &XPTransaction{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      userID,
		Action:      action,
		XP:          b.Total(),
		Breakdown:   b,
		ReferenceID: referenceID,
		CreatedAt:   createdAt,
	}, nil
}
