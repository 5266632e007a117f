package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "LifeQuest"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves every progression, loot, achievement and league endpoint.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start the cron runner",
			Category:    "Worker",
			Description: `Runs recurring jobs, currently the weekly league finalization.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Database",
			Description: `Creates or updates every table this service owns.`,
		},
	}

	s.app = app
}
