package progression

// Rand is the injectable random source of the award engine, satisfied by
// *math/rand.Rand.
type Rand interface {
	Float64() float64
}

type AwardParams struct {
	BaseXP     int
	StreakDays int

	// StreakBonusPerDay and StreakBonusMax control the streak multiplier:
	// 1 + min(StreakDays*StreakBonusPerDay, StreakBonusMax).
	StreakBonusPerDay float64
	StreakBonusMax    float64

	// CritChance is the probability of a critical hit doubling the award.
	CritChance float64

	// BoostMultiplier is the active time-limited boost, 1 when none.
	BoostMultiplier float64
}

type AwardBreakdown struct {
	BaseXP      int
	StreakBonus int
	CritBonus   int
	BoostBonus  int
	TotalXP     int

	CriticalHit bool
}

// ComputeAward applies the modifiers in their fixed order: streak bonus
// first, then the critical-hit doubling, then the boost multiplier.
func ComputeAward(params AwardParams, rng Rand) AwardBreakdown {
	breakdown := AwardBreakdown{BaseXP: params.BaseXP}

	streakBonus := float64(params.StreakDays) * params.StreakBonusPerDay
	if streakBonus > params.StreakBonusMax {
		streakBonus = params.StreakBonusMax
	}
	breakdown.StreakBonus = int(float64(params.BaseXP) * streakBonus)

	afterStreak := breakdown.BaseXP + breakdown.StreakBonus
	if params.CritChance > 0 && rng.Float64() < params.CritChance {
		breakdown.CriticalHit = true
		breakdown.CritBonus = afterStreak
	}

	afterCrit := afterStreak + breakdown.CritBonus
	if params.BoostMultiplier > 1 {
		breakdown.BoostBonus = int(float64(afterCrit) * (params.BoostMultiplier - 1))
	}

	breakdown.TotalXP = afterCrit + breakdown.BoostBonus
	return breakdown
}
