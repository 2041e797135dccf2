// @title			Nexus API
// @version		1.0
// @description	Mock backend for monitoring AI agents: agent listing, generated metrics, telemetry ingest.
// @BasePath		/

package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/nexus/internal/config"
	"github.com/mtlprog/nexus/internal/logger"
)

func main() {
	app := &cli.App{
		Name:  "nexus",
		Usage: "Monitoring backend and SDK tools for AI agents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL (empty keeps everything in memory)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringSliceFlag{
						Name:    "api-key",
						Usage:   "API key required on ingest routes (repeatable; none disables auth)",
						EnvVars: []string{"API_KEYS"},
					},
					&cli.IntFlag{
						Name:    "retention",
						Value:   config.DefaultRetention,
						Usage:   "In-memory entries kept per log type and for health reports",
						EnvVars: []string{"RETENTION"},
					},
					&cli.StringFlag{
						Name:    "seed-file",
						Usage:   "Fixture file with organizations and agents (yaml, json or toml)",
						EnvVars: []string{"SEED_FILE"},
					},
					&cli.StringFlag{
						Name:    "cors-origin",
						Usage:   "Allowed CORS origin (empty allows any)",
						EnvVars: []string{"CORS_ORIGIN"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: runMigrate,
			},
			{
				Name:   "simulate",
				Usage:  "Run a sample agent that reports to a running server",
				Flags:  clientFlags(),
				Action: runSimulate,
			},
			{
				Name:   "check",
				Usage:  "Test connectivity to a running server",
				Flags:  clientFlags(),
				Action: runCheck,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "backend-url",
			Aliases: []string{"b"},
			Value:   config.DefaultBackendURL,
			Usage:   "Nexus server URL",
			EnvVars: []string{"NEXUS_BACKEND_URL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key sent as a bearer token",
			EnvVars: []string{"NEXUS_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "agent-id",
			Value:   "agent-support-bot",
			Usage:   "Agent id to report as",
			EnvVars: []string{"NEXUS_AGENT_ID"},
		},
	}
}
