package progression

import "math"

// Curve defines a level curve: reaching level n+1 from level n requires
// Base * Scale^(n-1) XP.
type Curve struct {
	Base  int64
	Scale float64
}

var (
	// HeroCurve drives the overall account level. It scales steeply so
	// late levels stay meaningful for long-term users.
	HeroCurve = Curve{Base: 250, Scale: 2}

	// SkillCurve drives per-life-area levels (fitness, travel, tasks).
	SkillCurve = Curve{Base: 100, Scale: 1.5}
)

type LevelInfo struct {
	Level          int
	XPIntoLevel    int64
	XPForNextLevel int64
}

// Required returns the XP needed to advance from the given level to the next
// one. The exponential growth is clamped to MaxInt64 so requirements beyond
// any reachable total stay positive and unreachable.
func (c Curve) Required(level int) int64 {
	required := float64(c.Base)
	for i := 1; i < level; i++ {
		required *= c.Scale
		if required >= math.MaxInt64 {
			return math.MaxInt64
		}
	}

	return int64(required)
}

// LevelForTotalXP converts a cumulative XP total into a level and the
// progress within it. It is pure and monotonic in totalXP; negative totals
// are clamped to zero. Level 1 is the floor.
func LevelForTotalXP(totalXP int64, curve Curve) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	remaining := totalXP
	for {
		required := curve.Required(level)
		if remaining < required {
			return LevelInfo{Level: level, XPIntoLevel: remaining, XPForNextLevel: required}
		}

		remaining -= required
		level++
	}
}
