package common

import "fmt"

func RedisKeyLeagueStandings(leagueID string) string {
	return fmt.Sprintf("league_standings:%s", leagueID)
}

func RedisKeyXPBoost(userID string) string {
	return fmt.Sprintf("xp_boost:%s", userID)
}
