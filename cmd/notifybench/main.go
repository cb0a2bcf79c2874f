package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

const (
	logLevelKey    = "log-level"
	iterationsKey  = "iterations"
	metricsKey     = "metrics"
	observablesKey = "observables"
)

func main() {
	cmd := &cli.Command{
		Name:  "notifybench",
		Usage: "Measure notification coalescing and publish latency",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    logLevelKey,
				Usage:   "Store log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("BATCHPARTY_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "latency",
				Usage: "Time publish cycles for growing observable counts and burst sizes",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    iterationsKey,
						Usage:   "Cycles measured per configuration",
						Value:   100,
						Sources: cli.EnvVars("BATCHPARTY_ITERATIONS"),
					},
				},
				Action: latency,
			},
			{
				Name:  "coalesce",
				Usage: "Count dispatches, publish cycles and subscriber calls",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    iterationsKey,
						Usage:   "Dispatches per configuration",
						Value:   10_000,
						Sources: cli.EnvVars("BATCHPARTY_ITERATIONS"),
					},
					&cli.IntFlag{
						Name:  observablesKey,
						Usage: "Observables contributed to the store",
						Value: 16,
					},
					&cli.BoolFlag{
						Name:  metricsKey,
						Usage: "Print the prometheus metrics gathered during the run",
					},
				},
				Action: coalesce,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// parseLevel maps debug, info, warn and error to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
