package model

type Achievement struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	Stat      string `json:"stat"`
	Threshold int64  `json:"threshold"`
	XPReward  int    `json:"xp_reward"`
}

type UserAchievement struct {
	Achievement Achievement `json:"achievement"`
	UnlockedAt  string      `json:"unlocked_at"`
	XPAwarded   int         `json:"xp_awarded"`
}

type GetAchievementsRequest struct{}

type GetAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}

type GetMyAchievementsRequest struct{}

type GetMyAchievementsResponse struct {
	Achievements []UserAchievement `json:"achievements"`
}

type EvaluateAchievementsRequest struct{}

type EvaluateAchievementsResponse struct {
	Unlocked []UserAchievement `json:"unlocked"`
}
