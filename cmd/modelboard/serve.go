package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	cli "github.com/urfave/cli/v2"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "run the modelboard HTTP daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "bind",
			Usage:    "Specify the local IP/port to bind to",
			Required: false,
			Value:    ":8100",
			EnvVars:  []string{"MODELBOARD_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":8101",
			EnvVars: []string{"MODELBOARD_METRICS_LISTEN"},
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "how long a fetched model snapshot is served before refresh",
			Value:   time.Hour,
			EnvVars: []string{"MODELBOARD_CACHE_TTL"},
		},
		&cli.StringFlag{
			Name:    "admin-token",
			Usage:   "shared secret for admin endpoints; empty disables them",
			EnvVars: []string{"MODELBOARD_ADMIN_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "default-models",
			Usage:   "comma-separated model identifiers preselected for comparison",
			EnvVars: []string{"MODELBOARD_DEFAULT_MODELS"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "serve static assets from disk instead of the embedded copy",
			Value:   false,
			EnvVars: []string{"DEBUG"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := configLogger(cctx, os.Stdout)

		srv, err := NewServer(Config{
			Logger:        logger,
			UpstreamURL:   cctx.String("upstream-url"),
			Bind:          cctx.String("bind"),
			CacheTTL:      cctx.Duration("cache-ttl"),
			AdminToken:    cctx.String("admin-token"),
			DefaultModels: cctx.String("default-models"),
			Debug:         cctx.Bool("debug"),
		})
		if err != nil {
			return fmt.Errorf("failed to construct server: %w", err)
		}

		// prometheus HTTP endpoint: /metrics
		go func() {
			runtime.SetBlockProfileRate(10)
			runtime.SetMutexProfileFraction(10)
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		return srv.RunAPI()
	},
}
