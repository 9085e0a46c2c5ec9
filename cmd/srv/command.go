package main

import "github.com/urfave/cli/v2"

// loadApp creates the cli app with every command and its flags.
func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "focus"
	s.app.Usage = "Focus time progression and daily goal ledger"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to a TOML config file",
			EnvVars: []string{"CONFIG_FILE"},
		},
		&cli.StringFlag{Name: "env", EnvVars: []string{"ENV"}},
		&cli.StringFlag{Name: "log-level", EnvVars: []string{"LOG_LEVEL"}},
		&cli.StringFlag{Name: "db-host", EnvVars: []string{"DB_HOST"}},
		&cli.StringFlag{Name: "db-port", EnvVars: []string{"DB_PORT"}},
		&cli.StringFlag{Name: "db-user", EnvVars: []string{"DB_USER"}},
		&cli.StringFlag{Name: "db-password", EnvVars: []string{"DB_PASSWORD"}},
		&cli.StringFlag{Name: "db-database", EnvVars: []string{"DB_DATABASE"}},
		&cli.StringFlag{Name: "db-log-level", EnvVars: []string{"DB_LOG_LEVEL"}},
		&cli.StringFlag{Name: "api-port", EnvVars: []string{"API_PORT"}},
		&cli.StringFlag{Name: "auth-method", EnvVars: []string{"AUTH_METHOD"}},
		&cli.StringFlag{Name: "token-secret", EnvVars: []string{"TOKEN_SECRET"}},
		&cli.StringFlag{Name: "oidc-issuer", EnvVars: []string{"OIDC_ISSUER"}},
		&cli.StringFlag{Name: "oidc-client-id", EnvVars: []string{"OIDC_CLIENT_ID"}},
		&cli.StringFlag{Name: "redis-addr", EnvVars: []string{"REDIS_ADDR"}},
		&cli.StringFlag{Name: "kafka-addr", EnvVars: []string{"KAFKA_ADDR"}},
		&cli.StringFlag{Name: "ledger-tz", EnvVars: []string{"LEDGER_TZ"}},
		&cli.IntFlag{Name: "finalizer-workers", EnvVars: []string{"FINALIZER_WORKERS"}},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the ledger operations over HTTP and exposes prometheus metrics.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Runs the daily finalizer once at startup and then every day.`,
		},
		{
			Action:   s.startFinalize,
			Name:     "finalize",
			Usage:    "Finalize one day and exit",
			Category: "Worker",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "date",
					Usage: "day key YYYY-MM-DD, defaults to yesterday",
				},
				&cli.BoolFlag{
					Name:  "force",
					Usage: "ignore the run lock held by another replica",
				},
			},
			Description: `Finalizes every user's daily goal for a given day.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate database schema",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "re-apply one migration version after the pending ones",
				},
			},
			Description: `Creates or updates the tables of the ledger.`,
		},
	}
}
