package testutil

import (
	"context"

	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:     entity.Base{ID: "user1"},
		Name:     "alice",
		Timezone: "UTC",
	}

	User2 = entity.User{
		Base:     entity.Base{ID: "user2"},
		Name:     "bob",
		Timezone: "America/New_York",
	}
)

// CreateFixtureDb inserts the standard users with empty progress into the
// context's database.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	progressRepo := repository.NewUserProgressRepository()

	for _, user := range []entity.User{User1, User2} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}

		err := progressRepo.Create(ctx, &entity.UserProgress{UserID: user.ID, Level: 1})
		if err != nil {
			panic(err)
		}
	}
}

// GameData mirrors the shipped gamedata.toml closely enough for domain tests.
func GameData() *config.GameData {
	return &config.GameData{
		Actions: []config.ActionDefinition{
			{Type: "visit", Skill: "travel", BaseXP: 25},
			{Type: "workout_set", Skill: "fitness", BaseXP: 10},
			{Type: "workout_completed", Skill: "fitness", BaseXP: 50},
			{Type: "quest_log", Skill: "tasks", BaseXP: 20},
			{Type: "review", Skill: "travel", BaseXP: 15},
		},
		RarityWeights: []config.RarityWeight{
			{Rarity: "common", Weight: 700},
			{Rarity: "rare", Weight: 220},
			{Rarity: "epic", Weight: 65},
			{Rarity: "legendary", Weight: 15},
		},
		LootItems: []config.LootItemDefinition{
			{Code: "wooden_token", Name: "Wooden Token", Rarity: "common"},
			{Code: "small_xp_crystal", Name: "Small XP Crystal", Rarity: "common", InstantXP: 10},
			{Code: "silver_compass", Name: "Silver Compass", Rarity: "rare"},
			{Code: "medium_xp_crystal", Name: "Medium XP Crystal", Rarity: "rare", InstantXP: 50},
			{Code: "epic_banner", Name: "Epic Banner", Rarity: "epic"},
			{Code: "grand_xp_crystal", Name: "Grand XP Crystal", Rarity: "epic", InstantXP: 150},
			{Code: "legendary_trophy", Name: "Legendary Trophy", Rarity: "legendary"},
		},
		Achievements: []config.AchievementDefinition{
			{Code: "first_steps", Name: "First Steps", Tier: "bronze", Stat: "total_actions", Threshold: 1, XPReward: 50},
			{Code: "globetrotter", Name: "Globetrotter", Tier: "silver", Stat: "total_visits", Threshold: 10, XPReward: 100},
			{Code: "iron_habit", Name: "Iron Habit", Tier: "gold", Stat: "longest_streak", Threshold: 30, XPReward: 500},
			{Code: "xp_collector", Name: "XP Collector", Tier: "silver", Stat: "total_xp", Threshold: 1000, XPReward: 150},
		},
		LeagueTiers: []config.LeagueTierDefinition{
			{Name: "bronze", Level: 1, PromoteCount: 10, DemoteCount: 0},
			{Name: "silver", Level: 2, PromoteCount: 7, DemoteCount: 5},
			{Name: "gold", Level: 3, PromoteCount: 5, DemoteCount: 7},
			{Name: "diamond", Level: 4, PromoteCount: 0, DemoteCount: 10},
		},
	}
}
