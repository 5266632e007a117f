package loot

import (
	"math/rand"
	"testing"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func testWeights() []TierWeight {
	return []TierWeight{
		{Rarity: entity.RarityCommon, Weight: 700},
		{Rarity: entity.RarityRare, Weight: 220},
		{Rarity: entity.RarityEpic, Weight: 65},
		{Rarity: entity.RarityLegendary, Weight: 15},
	}
}

func testItems() []Item {
	return []Item{
		{Code: "wooden_token", Rarity: entity.RarityCommon},
		{Code: "silver_compass", Rarity: entity.RarityRare},
		{Code: "epic_banner", Rarity: entity.RarityEpic},
		{Code: "legendary_trophy", Rarity: entity.RarityLegendary},
	}
}

func Test_Roll_alwaysDrops(t *testing.T) {
	table := NewTable(testWeights(), testItems())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		result, err := table.Roll(Context{}, rng)
		require.NoError(t, err)
		require.NotEmpty(t, result.Item.Code)
	}
}

func Test_Roll_baseFrequencies(t *testing.T) {
	table := NewTable(testWeights(), testItems())
	rng := rand.New(rand.NewSource(1))

	counts := map[entity.Rarity]int{}
	const rolls = 10000
	for i := 0; i < rolls; i++ {
		result, err := table.Roll(Context{}, rng)
		require.NoError(t, err)
		counts[result.Rarity]++
	}

	// Expected shares are 70%, 22%, 6.5% and 1.5%.
	require.InDelta(t, 0.70, float64(counts[entity.RarityCommon])/rolls, 0.02)
	require.InDelta(t, 0.22, float64(counts[entity.RarityRare])/rolls, 0.02)
	require.InDelta(t, 0.065, float64(counts[entity.RarityEpic])/rolls, 0.01)
	require.InDelta(t, 0.015, float64(counts[entity.RarityLegendary])/rolls, 0.01)
}

func Test_Roll_bonusShiftsTowardHigherTiers(t *testing.T) {
	table := NewTable(testWeights(), testItems())

	base := map[entity.Rarity]int{}
	rng := rand.New(rand.NewSource(7))
	const rolls = 10000
	for i := 0; i < rolls; i++ {
		result, err := table.Roll(Context{}, rng)
		require.NoError(t, err)
		require.False(t, result.BonusApplied)
		base[result.Rarity]++
	}

	boosted := map[entity.Rarity]int{}
	ctx := Context{EventXP: 400, ExerciseCount: 15, PersonalRecord: true, StreakDays: 30}
	rng = rand.New(rand.NewSource(7))
	for i := 0; i < rolls; i++ {
		result, err := table.Roll(ctx, rng)
		require.NoError(t, err)
		require.True(t, result.BonusApplied)
		boosted[result.Rarity]++
	}

	require.Greater(t, boosted[entity.RarityLegendary], base[entity.RarityLegendary])
	require.Greater(t, boosted[entity.RarityEpic], base[entity.RarityEpic])
	require.Less(t, boosted[entity.RarityCommon], base[entity.RarityCommon])
}

func Test_Roll_emptyTierFallsBack(t *testing.T) {
	// No legendary item in the catalog: a legendary roll must downgrade to
	// the next lower tier with items instead of failing.
	items := []Item{
		{Code: "wooden_token", Rarity: entity.RarityCommon},
		{Code: "silver_compass", Rarity: entity.RarityRare},
	}
	table := NewTable(testWeights(), items)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 10000; i++ {
		result, err := table.Roll(Context{PersonalRecord: true, StreakDays: 30}, rng)
		require.NoError(t, err)
		require.Contains(t,
			[]entity.Rarity{entity.RarityCommon, entity.RarityRare}, result.Rarity)
	}
}

func Test_Roll_emptyCatalogFails(t *testing.T) {
	table := NewTable(testWeights(), nil)
	rng := rand.New(rand.NewSource(3))

	_, err := table.Roll(Context{}, rng)
	require.Error(t, err)
}

func Test_BonusShift_caps(t *testing.T) {
	require.Equal(t, 0, BonusShift(Context{}))
	require.Equal(t, EventXPShiftMax, BonusShift(Context{EventXP: 100000}))
	require.Equal(t, ExerciseShiftMax, BonusShift(Context{ExerciseCount: 1000}))
	require.Equal(t, StreakShiftMax, BonusShift(Context{StreakDays: 1000}))
	require.Equal(t, PersonalRecordShift, BonusShift(Context{PersonalRecord: true}))
}
