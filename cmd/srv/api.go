package main

import (
	"fmt"
	"net/http"

	"github.com/lifequest-lab/backend/internal/middleware"
	"github.com/lifequest-lab/backend/pkg/router"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadSnowFlake()
	s.loadRedis()
	s.loadPublisher()
	s.loadGameData()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", xcontext.Configs(s.ctx).ApiServer.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port %s",
		xcontext.Configs(s.ctx).ApiServer.Port)
	if err := httpServer.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	// Public API.
	router.POST(s.router, "/register", s.userDomain.Register)
	router.GET(s.router, "/getAchievements", s.achievementDomain.GetAchievements)
	router.GET(s.router, "/getLeagueStandings", s.leagueDomain.GetLeagueStandings)

	// These following APIs need authentication with an access token.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.NewAuthVerifier(s.tokenEngine))
	{
		// User API.
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)

		// Progression API.
		router.POST(authRouter, "/awardXP", s.progressionDomain.AwardXP)
		router.GET(authRouter, "/getProgress", s.progressionDomain.GetProgress)
		router.GET(authRouter, "/getAwardHistory", s.progressionDomain.GetAwardHistory)
		router.POST(authRouter, "/recordActivity", s.progressionDomain.RecordActivity)
		router.POST(authRouter, "/activateBoost", s.progressionDomain.ActivateBoost)

		// Loot API.
		router.POST(authRouter, "/rollLoot", s.lootDomain.RollLoot)
		router.GET(authRouter, "/getInventory", s.lootDomain.GetInventory)

		// Achievement API.
		router.GET(authRouter, "/getMyAchievements", s.achievementDomain.GetMyAchievements)
		router.POST(authRouter, "/evaluateAchievements", s.achievementDomain.EvaluateAchievements)

		// League API.
		router.POST(authRouter, "/joinLeague", s.leagueDomain.JoinLeague)
		router.GET(authRouter, "/getMyLeague", s.leagueDomain.GetMyLeague)
		router.POST(authRouter, "/finalizeLeague", s.leagueDomain.FinalizeLeague)
	}
}
