package model

type LootDrop struct {
	ID           string `json:"id"`
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`
	Rarity       string `json:"rarity"`
	Quantity     int    `json:"quantity"`
	InstantXP    int    `json:"instant_xp,omitempty"`
	BonusApplied bool   `json:"bonus_applied"`
	CreatedAt    string `json:"created_at"`
}

type RollLootRequest struct {
	// IdempotencyKey dedups the whole roll: a retried key replays the
	// recorded drop and award instead of rolling again.
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=128"`

	EventXP        int  `json:"event_xp" validate:"gte=0"`
	ExerciseCount  int  `json:"exercise_count" validate:"gte=0"`
	PersonalRecord bool `json:"personal_record"`
}

type RollLootResponse struct {
	Drop LootDrop `json:"drop"`

	// XPAwarded is set when the dropped item was an instant XP crystal and
	// its value was pushed through the award engine instead of inventory.
	XPAwarded *AwardXPResponse `json:"xp_awarded,omitempty"`

	// Duplicate reports a replayed idempotency key. The drop and award are
	// the previously recorded ones; no state changed.
	Duplicate bool `json:"duplicate,omitempty"`
}

type GetInventoryRequest struct {
	Offset int `form:"offset" validate:"gte=0"`
	Limit  int `form:"limit" validate:"gte=0,lte=100"`
}

type GetInventoryResponse struct {
	Drops []LootDrop `json:"drops"`
	Total int64      `json:"total"`
}
