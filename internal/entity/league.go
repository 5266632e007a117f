package entity

import (
	"fmt"
	"time"

	"github.com/lifequest-lab/backend/pkg/dateutil"
	"github.com/lifequest-lab/backend/pkg/enum"
)

// LeaguePeriod identifies the ISO week a league cohort competes in.
type LeaguePeriod struct {
	current time.Time
}

func NewLeaguePeriod(current time.Time) LeaguePeriod {
	return LeaguePeriod{current: current}
}

func (p LeaguePeriod) Period() string {
	year, week := p.current.ISOWeek()
	return fmt.Sprintf("%d:%d", week, year)
}

func (p LeaguePeriod) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p LeaguePeriod) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

type MembershipStatus string

var (
	MembershipActive    = enum.New(MembershipStatus("active"))
	MembershipFinalized = enum.New(MembershipStatus("finalized"))
)

type LeagueOutcome string

var (
	OutcomePromoted = enum.New(LeagueOutcome("promoted"))
	OutcomeDemoted  = enum.New(LeagueOutcome("demoted"))
	OutcomeStayed   = enum.New(LeagueOutcome("stayed"))
)

// League is a fixed-capacity weekly cohort of one tier.
type League struct {
	Base

	Tier     string `gorm:"index:idx_leagues_tier_period"`
	Period   string `gorm:"index:idx_leagues_tier_period"`
	Capacity int

	StartTime time.Time
	EndTime   time.Time

	Finalized bool
}

// LeagueMembership accrues one user's weekly XP within a cohort. Once the
// period is finalized the row freezes (status, final rank and outcome are
// written exactly once) and becomes the immutable history record.
type LeagueMembership struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	LeagueID string `gorm:"primaryKey"`
	League   League `gorm:"foreignKey:LeagueID"`

	UserID string `gorm:"primaryKey;index"`
	User   User   `gorm:"foreignKey:UserID"`

	WeeklyXP int64
	JoinedAt time.Time

	Status    MembershipStatus
	FinalRank int
	Outcome   LeagueOutcome
}
