package main

import (
	"github.com/lifequest-lab/backend/internal/domain/cron"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadSnowFlake()
	s.loadRedis()
	s.loadPublisher()
	s.loadGameData()
	s.loadRepos()
	s.loadDomains()

	manager := cron.NewCronJobManager()
	manager.Register(cron.NewFinalizeLeaguesCronJob(s.leagueRepo, s.leagueDomain))
	manager.Start(s.ctx)

	return nil
}
