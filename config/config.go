package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Game      GameConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

type AuthConfigs struct {
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

type GameConfigs struct {
	// DataFile is the path of the TOML file containing the static game
	// tables (actions, loot catalog, achievements, league tiers).
	DataFile string

	// CritChance is the probability of doubling an XP award.
	CritChance float64

	// StreakBonusPerDay and StreakBonusMax control the streak multiplier:
	// 1 + min(streak*StreakBonusPerDay, StreakBonusMax).
	StreakBonusPerDay float64
	StreakBonusMax    float64

	// BoostTTL is how long an activated XP boost stays effective.
	BoostTTL time.Duration

	// LeagueCapacity is the maximum number of members per league cohort.
	LeagueCapacity int
}
