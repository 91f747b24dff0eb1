package reward

import "math"

// Action is something a user does that earns XP
type Action string

const (
	ActionTaskCompleted    Action = "TASK_COMPLETED"
	ActionCheckIn          Action = "CHECK_IN"
	ActionClientVisit      Action = "CLIENT_VISIT"
	ActionLeadConverted    Action = "LEAD_CONVERTED"
	ActionClaimSubmitted   Action = "CLAIM_SUBMITTED"
	ActionQuotationCreated Action = "QUOTATION_CREATED"
)

// Category buckets XP for the per-category totals
type Category string

const (
	CategoryWork       Category = "WORK"
	CategoryAttendance Category = "ATTENDANCE"
	CategorySales      Category = "SALES"
	CategoryAdmin      Category = "ADMIN"
)

type actionRule struct {
	xp       int
	category Category
}

var xpTable = map[Action]actionRule{
	ActionTaskCompleted:    {50, CategoryWork},
	ActionCheckIn:          {10, CategoryAttendance},
	ActionClientVisit:      {15, CategoryWork},
	ActionLeadConverted:    {100, CategorySales},
	ActionClaimSubmitted:   {5, CategoryAdmin},
	ActionQuotationCreated: {25, CategorySales},
}

// IsValid reports whether a is in the XP table
func (a Action) IsValid() bool {
	_, ok := xpTable[a]
	return ok
}

// Rank is a named tier derived from the level
type Rank string

const (
	RankRookie   Rank = "ROOKIE"
	RankBronze   Rank = "BRONZE"
	RankSilver   Rank = "SILVER"
	RankGold     Rank = "GOLD"
	RankPlatinum Rank = "PLATINUM"
	RankDiamond  Rank = "DIAMOND"
)

// minimum level for each rank, highest first
var rankThresholds = []struct {
	level int
	rank  Rank
}{
	{16, RankDiamond},
	{12, RankPlatinum},
	{8, RankGold},
	{5, RankSilver},
	{3, RankBronze},
	{1, RankRookie},
}

// LevelFor returns floor(sqrt(xp/100)) + 1
func LevelFor(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalXP)/100))) + 1
}

// RankFor maps a level onto its rank
func RankFor(level int) Rank {
	for _, t := range rankThresholds {
		if level >= t.level {
			return t.rank
		}
	}
	return RankRookie
}

// Bonus carries optional context used to add bonus XP
type Bonus struct {
	// HighPriority is set for HIGH or URGENT tasks
	HighPriority bool
	// OnTime is set when a task finished before its deadline
	OnTime bool
}

// Breakdown explains how an award was computed
type Breakdown struct {
	Base          int      `json:"base"`
	PriorityBonus int      `json:"priority_bonus,omitempty"`
	OnTimeBonus   int      `json:"on_time_bonus,omitempty"`
	Category      Category `json:"category"`
}

// Total sums all components
func (b Breakdown) Total() int {
	return b.Base + b.PriorityBonus + b.OnTimeBonus
}

// Calculate looks up the base XP for an action and applies task bonuses
func Calculate(action Action, bonus Bonus) (Breakdown, bool) {
	rule, ok := xpTable[action]
	if !ok {
		return Breakdown{}, false
	}
	b := Breakdown{Base: rule.xp, Category: rule.category}
	if action == ActionTaskCompleted {
		if bonus.HighPriority {
			b.PriorityBonus = rule.xp / 2
		}
		if bonus.OnTime {
			b.OnTimeBonus = rule.xp / 5
		}
	}
	return b, true
}
