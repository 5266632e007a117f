package domain

import (
	"testing"

	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLootDomainWithItems(t *testing.T, items []config.LootItemDefinition) *lootDomain {
	t.Helper()

	gameData := testutil.GameData()
	gameData.LootItems = items

	lootDomain, err := NewLootDomain(
		repository.NewUserProgressRepository(),
		repository.NewLootRepository(),
		repository.NewXPAwardRepository(),
		&testutil.MockPublisher{},
		gameData,
	)
	require.NoError(t, err)
	return lootDomain
}

func Test_lootDomain_RollLoot(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	// No crystals, so every drop lands in the inventory.
	lootDomain := newLootDomainWithItems(t, []config.LootItemDefinition{
		{Code: "wooden_dumbbell", Name: "Wooden Dumbbell", Rarity: "common"},
		{Code: "silver_compass", Name: "Silver Compass", Rarity: "rare"},
		{Code: "golden_kettlebell", Name: "Golden Kettlebell", Rarity: "epic"},
		{Code: "phoenix_medal", Name: "Phoenix Medal", Rarity: "legendary"},
	})

	resp, err := lootDomain.RollLoot(ctx, &model.RollLootRequest{
		IdempotencyKey: "roll-1",
		EventXP:        120,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Drop.ItemCode)
	require.True(t, resp.Drop.BonusApplied)
	require.False(t, resp.Duplicate)

	inventory, err := lootDomain.GetInventory(ctx, &model.GetInventoryRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 1, inventory.Total)
	require.Equal(t, resp.Drop.ItemCode, inventory.Drops[0].ItemCode)

	// A replayed key returns the recorded drop instead of rolling again.
	replay, err := lootDomain.RollLoot(ctx, &model.RollLootRequest{
		IdempotencyKey: "roll-1",
	})
	require.NoError(t, err)
	require.True(t, replay.Duplicate)
	require.Equal(t, resp.Drop.ID, replay.Drop.ID)
	require.Equal(t, resp.Drop.ItemCode, replay.Drop.ItemCode)

	inventory, err = lootDomain.GetInventory(ctx, &model.GetInventoryRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 1, inventory.Total)
}

func Test_lootDomain_RollLoot_instantXPCrystal(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	// A catalog of nothing but crystals makes the instant-XP path
	// deterministic.
	lootDomain := newLootDomainWithItems(t, []config.LootItemDefinition{
		{Code: "small_xp_crystal", Name: "Small XP Crystal", Rarity: "common", InstantXP: 10},
		{Code: "medium_xp_crystal", Name: "Medium XP Crystal", Rarity: "rare", InstantXP: 50},
		{Code: "grand_xp_crystal", Name: "Grand XP Crystal", Rarity: "epic", InstantXP: 150},
		{Code: "giant_xp_crystal", Name: "Giant XP Crystal", Rarity: "legendary", InstantXP: 500},
	})
	progressRepo := repository.NewUserProgressRepository()

	resp, err := lootDomain.RollLoot(ctx, &model.RollLootRequest{IdempotencyKey: "roll-1"})
	require.NoError(t, err)
	require.NotNil(t, resp.XPAwarded)
	require.Equal(t, resp.Drop.InstantXP, resp.XPAwarded.TotalXP)

	progress, err := progressRepo.Get(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, resp.Drop.InstantXP, progress.TotalXP)

	// Crystals bypass the inventory listing.
	inventory, err := lootDomain.GetInventory(ctx, &model.GetInventoryRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 0, inventory.Total)
	require.Empty(t, inventory.Drops)

	// A replayed key returns the prior drop and award without granting XP
	// or a second drop.
	replay, err := lootDomain.RollLoot(ctx, &model.RollLootRequest{IdempotencyKey: "roll-1"})
	require.NoError(t, err)
	require.True(t, replay.Duplicate)
	require.Equal(t, resp.Drop.ID, replay.Drop.ID)
	require.NotNil(t, replay.XPAwarded)
	require.True(t, replay.XPAwarded.Duplicate)
	require.Equal(t, resp.XPAwarded.AwardID, replay.XPAwarded.AwardID)

	progress, err = progressRepo.Get(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, resp.Drop.InstantXP, progress.TotalXP)
}

func Test_lootDomain_RollLoot_keyUsedByAnotherAwardPath(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	_, err := domains.progression.AwardXP(ctx, &model.AwardXPRequest{
		IdempotencyKey: "shared-key",
		ActionType:     "visit",
	})
	require.NoError(t, err)

	lootDomain := newLootDomainWithItems(t, []config.LootItemDefinition{
		{Code: "small_xp_crystal", Name: "Small XP Crystal", Rarity: "common", InstantXP: 10},
	})

	_, err = lootDomain.RollLoot(ctx, &model.RollLootRequest{IdempotencyKey: "shared-key"})
	require.Error(t, err)
	require.Equal(t, "Duplicated idempotency key", err.Error())

	// The rejected roll must leave no drop behind.
	_, err = repository.NewLootRepository().GetByIdempotencyKey(ctx, testutil.User1.ID, "shared-key")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
