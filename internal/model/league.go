package model

type League struct {
	ID        string `json:"id"`
	Tier      string `json:"tier"`
	Period    string `json:"period"`
	Capacity  int    `json:"capacity"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Finalized bool   `json:"finalized"`
}

type LeagueStanding struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	WeeklyXP int64  `json:"weekly_xp"`
	Outcome  string `json:"outcome,omitempty"`
}

type JoinLeagueRequest struct{}

type JoinLeagueResponse struct {
	League League `json:"league"`
}

type GetLeagueStandingsRequest struct {
	LeagueID string `form:"league_id" validate:"required"`
}

type GetLeagueStandingsResponse struct {
	League    League           `json:"league"`
	Standings []LeagueStanding `json:"standings"`
}

type GetMyLeagueRequest struct{}

type GetMyLeagueResponse struct {
	League   League `json:"league"`
	Rank     int    `json:"rank"`
	WeeklyXP int64  `json:"weekly_xp"`
}

type FinalizeLeagueRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
}

type FinalizeLeagueResponse struct {
	Standings []LeagueStanding `json:"standings"`
}
