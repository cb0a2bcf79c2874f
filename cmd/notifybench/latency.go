package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/batchparty/batch"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

var (
	observableCounts = []int{1, 10, 100}
	burstSizes       = []int{1, 10, 100}
)

func latency(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("latency benchmark started")
	defer func() {
		log.Printf("latency benchmark finished in %v", time.Since(start))
	}()

	logger := batch.NewLogger(os.Stderr, parseLevel(cmd.String(logLevelKey)))
	iters := int(cmd.Int(iterationsKey))

	tbl := table.NewWriter()
	tbl.SetTitle("Publish latency")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"observables", "burst", "avg", "min", "p75", "p99", "max"})

	for _, n := range observableCounts {
		for _, burst := range burstSizes {
			w, err := newWorkload(logger, batch.Hooks{}, n)
			if err != nil {
				return err
			}

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for j := 0; j < burst; j++ {
					w.touch((i + j) % n)
				}

				cycleStart := time.Now()
				if err := w.ticker.Frame(); err != nil {
					return err
				}
				tach.AddTime(time.Since(cycleStart))
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				n,
				burst,
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			})
		}
		tbl.AppendSeparator()
	}

	tbl.Render()
	fmt.Println()
	return nil
}
