package progression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedRand struct {
	value float64
}

func (r fixedRand) Float64() float64 {
	return r.value
}

func Test_ComputeAward_streakBonus(t *testing.T) {
	breakdown := ComputeAward(AwardParams{
		BaseXP:            100,
		StreakDays:        4,
		StreakBonusPerDay: 0.05,
		StreakBonusMax:    1,
	}, fixedRand{value: 0.99})

	require.Equal(t, 100, breakdown.BaseXP)
	require.Equal(t, 20, breakdown.StreakBonus)
	require.Equal(t, 0, breakdown.CritBonus)
	require.Equal(t, 0, breakdown.BoostBonus)
	require.Equal(t, 120, breakdown.TotalXP)
	require.False(t, breakdown.CriticalHit)
}

func Test_ComputeAward_streakBonusIsCapped(t *testing.T) {
	breakdown := ComputeAward(AwardParams{
		BaseXP:            100,
		StreakDays:        365,
		StreakBonusPerDay: 0.05,
		StreakBonusMax:    1,
	}, fixedRand{value: 0.99})

	require.Equal(t, 100, breakdown.StreakBonus)
	require.Equal(t, 200, breakdown.TotalXP)
}

func Test_ComputeAward_critDoublesAfterStreak(t *testing.T) {
	breakdown := ComputeAward(AwardParams{
		BaseXP:            100,
		StreakDays:        4,
		StreakBonusPerDay: 0.05,
		StreakBonusMax:    1,
		CritChance:        0.1,
	}, fixedRand{value: 0.05})

	require.True(t, breakdown.CriticalHit)
	require.Equal(t, 20, breakdown.StreakBonus)
	require.Equal(t, 120, breakdown.CritBonus)
	require.Equal(t, 240, breakdown.TotalXP)
}

func Test_ComputeAward_boostAppliesLast(t *testing.T) {
	breakdown := ComputeAward(AwardParams{
		BaseXP:            100,
		StreakDays:        4,
		StreakBonusPerDay: 0.05,
		StreakBonusMax:    1,
		CritChance:        0.1,
		BoostMultiplier:   1.5,
	}, fixedRand{value: 0.05})

	// (100 + 20) doubled by the crit, then +50% from the boost.
	require.Equal(t, 120, breakdown.BoostBonus)
	require.Equal(t, 360, breakdown.TotalXP)
}

func Test_ComputeAward_noModifiers(t *testing.T) {
	breakdown := ComputeAward(AwardParams{BaseXP: 25}, fixedRand{value: 0.99})
	require.Equal(t, 25, breakdown.TotalXP)
}
