package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// GameData holds the static tables driving the gamification core. They are
// loaded once at startup and treated as read-only afterwards.
type GameData struct {
	Actions       []ActionDefinition      `toml:"actions"`
	RarityWeights []RarityWeight          `toml:"rarity_weights"`
	LootItems     []LootItemDefinition    `toml:"loot_items"`
	Achievements  []AchievementDefinition `toml:"achievements"`
	LeagueTiers   []LeagueTierDefinition  `toml:"league_tiers"`
}

type ActionDefinition struct {
	Type   string `toml:"type"`
	Skill  string `toml:"skill"`
	BaseXP int    `toml:"base_xp"`
}

type RarityWeight struct {
	Rarity string `toml:"rarity"`
	Weight int    `toml:"weight"`
}

type LootItemDefinition struct {
	Code   string `toml:"code"`
	Name   string `toml:"name"`
	Rarity string `toml:"rarity"`

	// InstantXP items bypass the inventory and add this amount to the
	// user's XP total when dropped.
	InstantXP int `toml:"instant_xp"`
}

type AchievementDefinition struct {
	Code      string `toml:"code"`
	Name      string `toml:"name"`
	Tier      string `toml:"tier"`
	Stat      string `toml:"stat"`
	Threshold int64  `toml:"threshold"`
	XPReward  int    `toml:"xp_reward"`
}

type LeagueTierDefinition struct {
	Name         string `toml:"name"`
	Level        int    `toml:"level"`
	PromoteCount int    `toml:"promote_count"`
	DemoteCount  int    `toml:"demote_count"`
}

func LoadGameData(path string) (*GameData, error) {
	var data GameData
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return nil, err
	}

	if len(data.Actions) == 0 {
		return nil, fmt.Errorf("game data contains no actions")
	}

	if len(data.RarityWeights) == 0 {
		return nil, fmt.Errorf("game data contains no rarity weights")
	}

	if len(data.LeagueTiers) == 0 {
		return nil, fmt.Errorf("game data contains no league tiers")
	}

	return &data, nil
}
