package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/delaneyj/batchparty/batch"
	"github.com/delaneyj/batchparty/cmd/notifybench/templates"
	"github.com/delaneyj/batchparty/pkg/metrics"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

type coalesceConfig struct {
	name       string
	frameEvery int // dispatches between frames
	deferred   bool
}

var coalesceConfigs = []coalesceConfig{
	{name: "frame per dispatch", frameEvery: 1},
	{name: "frame per 10 dispatches", frameEvery: 10},
	{name: "frame per 100 dispatches", frameEvery: 100},
	{name: "transaction per 100 dispatches", frameEvery: 100, deferred: true},
}

func coalesce(ctx context.Context, cmd *cli.Command) error {
	log.Printf("coalesce benchmark started")
	defer log.Printf("coalesce benchmark finished")

	logger := batch.NewLogger(os.Stderr, parseLevel(cmd.String(logLevelKey)))
	dispatches := int(cmd.Int(iterationsKey))
	observables := int(cmd.Int(observablesKey))
	if observables <= 0 {
		return fmt.Errorf("--%s must be positive", observablesKey)
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New("notifybench")
	if err := collector.Register(reg); err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"config", "dispatches", "cycles", "observable calls", "dispatches/cycle", "time",
	})

	summary := templates.Summary{Observables: observables}
	for _, cfg := range coalesceConfigs {
		w, err := newWorkload(logger, collector.Hooks(), observables)
		if err != nil {
			return err
		}
		start := time.Now()
		for i := 0; i < dispatches; i += cfg.frameEvery {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := min(cfg.frameEvery, dispatches-i)
			burst := func(context.Context) error {
				for j := 0; j < n; j++ {
					w.touch((i + j) % observables)
				}
				return nil
			}

			if cfg.deferred {
				err = w.store.DeferNotifications(ctx, burst)
			} else {
				err = burst(ctx)
			}
			if err != nil {
				return err
			}
			if err := w.ticker.Frame(); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)
		// every cycle reaches the broadcast subscriber
		cycles := int(w.broadcasts)

		perCycle := 0.0
		if cycles > 0 {
			perCycle = float64(dispatches) / float64(cycles)
		}
		table.Append([]string{
			cfg.name,
			humanize.Comma(int64(dispatches)),
			humanize.Comma(int64(cycles)),
			humanize.Comma(w.notified),
			humanize.Ftoa(perCycle),
			fmt.Sprint(elapsed),
		})
		summary.Rows = append(summary.Rows, templates.SummaryRow{
			Name:       cfg.name,
			Dispatches: dispatches,
			Cycles:     cycles,
			Notified:   int(w.notified),
		})
	}
	table.Render()

	fmt.Print(templates.SummaryText(summary))

	if cmd.Bool(metricsKey) {
		return printMetrics(reg)
	}
	return nil
}

func printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"metric", "labels", "value"})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += lp.GetName() + "=" + lp.GetValue() + " "
			}
			var value string
			switch {
			case m.GetCounter() != nil:
				value = humanize.Ftoa(m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = "count=" + strconv.FormatUint(h.GetSampleCount(), 10) + " sum=" + humanize.Ftoa(h.GetSampleSum())
			default:
				continue
			}
			table.Append([]string{mf.GetName(), labels, value})
		}
	}
	table.Render()
	return nil
}
