package progression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_LevelForTotalXP_heroBoundaries(t *testing.T) {
	testcases := []struct {
		totalXP       int64
		expectedLevel int
		expectedInto  int64
		expectedNext  int64
	}{
		{totalXP: 0, expectedLevel: 1, expectedInto: 0, expectedNext: 250},
		{totalXP: 249, expectedLevel: 1, expectedInto: 249, expectedNext: 250},
		{totalXP: 250, expectedLevel: 2, expectedInto: 0, expectedNext: 500},
		{totalXP: 749, expectedLevel: 2, expectedInto: 499, expectedNext: 500},
		{totalXP: 750, expectedLevel: 3, expectedInto: 0, expectedNext: 1000},
		{totalXP: -10, expectedLevel: 1, expectedInto: 0, expectedNext: 250},
	}

	for _, tc := range testcases {
		info := LevelForTotalXP(tc.totalXP, HeroCurve)
		require.Equal(t, tc.expectedLevel, info.Level, "totalXP=%d", tc.totalXP)
		require.Equal(t, tc.expectedInto, info.XPIntoLevel, "totalXP=%d", tc.totalXP)
		require.Equal(t, tc.expectedNext, info.XPForNextLevel, "totalXP=%d", tc.totalXP)
	}
}

func Test_LevelForTotalXP_skillCurve(t *testing.T) {
	require.Equal(t, 1, LevelForTotalXP(99, SkillCurve).Level)
	require.Equal(t, 2, LevelForTotalXP(100, SkillCurve).Level)

	// 100 + 150 = 250 is the level 3 boundary.
	require.Equal(t, 2, LevelForTotalXP(249, SkillCurve).Level)
	require.Equal(t, 3, LevelForTotalXP(250, SkillCurve).Level)
}

func Test_LevelForTotalXP_monotonic(t *testing.T) {
	for _, curve := range []Curve{HeroCurve, SkillCurve} {
		prev := 0
		for totalXP := int64(0); totalXP <= 100000; totalXP += 97 {
			level := LevelForTotalXP(totalXP, curve).Level
			require.GreaterOrEqual(t, level, prev)
			prev = level
		}
	}
}

func Test_Curve_Required(t *testing.T) {
	require.EqualValues(t, 250, HeroCurve.Required(1))
	require.EqualValues(t, 500, HeroCurve.Required(2))
	require.EqualValues(t, 1000, HeroCurve.Required(3))

	require.EqualValues(t, 100, SkillCurve.Required(1))
	require.EqualValues(t, 150, SkillCurve.Required(2))
	require.EqualValues(t, 225, SkillCurve.Required(3))
}

func Test_Curve_Required_clampsAtHighLevels(t *testing.T) {
	// 250 * 2^59 exceeds int64; the requirement must clamp, not wrap.
	require.Greater(t, HeroCurve.Required(60), int64(0))
	require.EqualValues(t, int64(math.MaxInt64), HeroCurve.Required(200))
	require.Greater(t, SkillCurve.Required(200), int64(0))
}

func Test_LevelForTotalXP_maxTotal(t *testing.T) {
	for _, curve := range []Curve{HeroCurve, SkillCurve} {
		info := LevelForTotalXP(math.MaxInt64, curve)
		require.Greater(t, info.Level, 1)
		require.GreaterOrEqual(t, info.XPIntoLevel, int64(0))
		require.Greater(t, info.XPForNextLevel, info.XPIntoLevel)
	}
}
