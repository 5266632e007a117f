package progression

import (
	"time"

	"github.com/lifequest-lab/backend/pkg/dateutil"
	"github.com/pkg/math"
)

type StreakResult struct {
	CurrentStreak int
	LongestStreak int
	StreakBroken  bool

	// Changed reports whether the streak state advanced. Same-day
	// duplicates and stale (out-of-order) activities leave it false.
	Changed bool

	// LastActivityDate is the new last-activity day (midnight in the
	// user's timezone) when Changed is true.
	LastActivityDate time.Time
}

// AdvanceStreak applies a single activity to the streak state. Days are
// compared at calendar-day granularity in the given location: a same-day
// activity is a no-op, the next day increments, a gap resets to one, and an
// activity older than the recorded one is ignored entirely so backfilled
// requests cannot corrupt the counters.
func AdvanceStreak(
	currentStreak, longestStreak int,
	lastActivity *time.Time,
	activity time.Time,
	loc *time.Location,
) StreakResult {
	if lastActivity == nil {
		current := 1
		return StreakResult{
			CurrentStreak:    current,
			LongestStreak:    math.MaxInt(longestStreak, current),
			Changed:          true,
			LastActivityDate: dateutil.Day(activity, loc),
		}
	}

	days := dateutil.DaysBetween(*lastActivity, activity, loc)
	switch {
	case days < 0:
		// Stale activity delivered out of order.
		return StreakResult{CurrentStreak: currentStreak, LongestStreak: longestStreak}

	case days == 0:
		return StreakResult{CurrentStreak: currentStreak, LongestStreak: longestStreak}

	case days == 1:
		current := currentStreak + 1
		return StreakResult{
			CurrentStreak:    current,
			LongestStreak:    math.MaxInt(longestStreak, current),
			Changed:          true,
			LastActivityDate: dateutil.Day(activity, loc),
		}

	default:
		return StreakResult{
			CurrentStreak:    1,
			LongestStreak:    math.MaxInt(longestStreak, 1),
			StreakBroken:     true,
			Changed:          true,
			LastActivityDate: dateutil.Day(activity, loc),
		}
	}
}
