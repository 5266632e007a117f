package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/domain"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/authenticator"
	"github.com/lifequest-lab/backend/pkg/kafka"
	"github.com/lifequest-lab/backend/pkg/logger"
	"github.com/lifequest-lab/backend/pkg/pubsub"
	"github.com/lifequest-lab/backend/pkg/router"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"github.com/lifequest-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo        repository.UserRepository
	progressRepo    repository.UserProgressRepository
	awardRepo       repository.XPAwardRepository
	lootRepo        repository.LootRepository
	achievementRepo repository.UserAchievementRepository
	leagueRepo      repository.LeagueRepository

	userDomain        domain.UserDomain
	progressionDomain domain.ProgressionDomain
	lootDomain        domain.LootDomain
	achievementDomain domain.AchievementDomain
	leagueDomain      domain.LeagueDomain

	tokenEngine authenticator.TokenEngine[model.AccessToken]
	redisClient xredis.Client
	publisher   pubsub.Publisher
	gameData    *config.GameData

	router *router.Router
}

func (s *srv) loadConfig(ct *cli.Context) {
	// Missing .env is fine, production configures through real env vars.
	godotenv.Load()

	configs := config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "lifequest"),
			User:     getEnv("MYSQL_USER", "lifequest"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", "localhost"),
			Port: getEnv("API_PORT", "8080"),
		},
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     getEnv("TOKEN_SECRET", "token_secret"),
				Expiration: getDuration("TOKEN_EXPIRATION", time.Hour*24*7),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDRESS", "localhost:9092"),
		},
		Game: config.GameConfigs{
			DataFile:          getEnv("GAME_DATA_FILE", "config/gamedata.toml"),
			CritChance:        getFloat("GAME_CRIT_CHANCE", 0.1),
			StreakBonusPerDay: getFloat("GAME_STREAK_BONUS_PER_DAY", 0.05),
			StreakBonusMax:    getFloat("GAME_STREAK_BONUS_MAX", 1),
			BoostTTL:          getDuration("GAME_BOOST_TTL", time.Hour),
			LeagueCapacity:    getInt("GAME_LEAGUE_CAPACITY", 30),
		},
	}

	s.ctx = xcontext.WithConfigs(ct.Context, configs)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	databaseCfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.Open(databaseCfg.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadSnowFlake() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadRedis() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher(
		"lifequest-backend", []string{xcontext.Configs(s.ctx).Kafka.Addr})
}

func (s *srv) loadGameData() {
	data, err := config.LoadGameData(xcontext.Configs(s.ctx).Game.DataFile)
	if err != nil {
		panic(err)
	}

	s.gameData = data
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.progressRepo = repository.NewUserProgressRepository()
	s.awardRepo = repository.NewXPAwardRepository()
	s.lootRepo = repository.NewLootRepository()
	s.achievementRepo = repository.NewUserAchievementRepository()
	s.leagueRepo = repository.NewLeagueRepository()
}

func (s *srv) loadDomains() {
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](
		xcontext.Configs(s.ctx).Auth.AccessToken)

	s.userDomain = domain.NewUserDomain(s.userRepo, s.progressRepo, s.tokenEngine)
	s.achievementDomain = domain.NewAchievementDomain(
		s.progressRepo, s.achievementRepo, s.awardRepo, s.publisher, s.gameData)
	s.progressionDomain = domain.NewProgressionDomain(
		s.userRepo, s.progressRepo, s.awardRepo, s.leagueRepo,
		s.achievementDomain, s.redisClient, s.publisher, s.gameData)

	lootDomain, err := domain.NewLootDomain(
		s.progressRepo, s.lootRepo, s.awardRepo, s.publisher, s.gameData)
	if err != nil {
		panic(err)
	}

	s.lootDomain = lootDomain
	s.leagueDomain = domain.NewLeagueDomain(
		s.leagueRepo, s.redisClient, s.publisher, s.gameData)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}

	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}
