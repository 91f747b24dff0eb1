package reward

import (
	"github.com/loro/backend/internal/domain/shared"
)

const (
	AggregateTypeUserRewards = "UserRewards"

	EventTypeLevelUp = "LevelUp"
)

// LevelUpEvent is raised when an award crosses a level boundary
type LevelUpEvent struct {
	shared.BaseDomainEvent
	UserID        string `json:"user_id"`
	PreviousLevel int    `json:"previous_level"`
	Level         int    `json:"level"`
	Rank          Rank   `json:"rank"`
}

// NewLevelUpEvent creates a new LevelUpEvent
func NewLevelUpEvent(r *UserRewards, previous int) *LevelUpEvent {
	return &LevelUpEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLevelUp, AggregateTypeUserRewards, r.ID, r.TenantID),
		UserID:          r.UserID.String(),
		PreviousLevel:   previous,
		Level:           r.CurrentLevel,
		Rank:            r.Rank,
	}
}
