// Package metrics exports scheduler hooks as prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/delaneyj/batchparty/batch"
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	Cycles              prometheus.Counter
	CycleFailures       prometheus.Counter
	CycleDuration       prometheus.Histogram
	ObservablesPerCycle prometheus.Histogram
	SubscriberCalls     *prometheus.CounterVec
	Transactions        prometheus.Counter
	TransactionDuration prometheus.Histogram
}

func New(namespace string) *Collector {
	return &Collector{
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_cycles_total",
			Help:      "Publish cycles that notified at least one channel.",
		}),
		CycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_cycle_failures_total",
			Help:      "Publish cycles in which a subscriber failed.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_cycle_duration_seconds",
			Help:      "Time spent notifying subscribers in one cycle.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		ObservablesPerCycle: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_cycle_observables",
			Help:      "Dirty observables notified per cycle.",
			Buckets:   prometheus.LinearBuckets(0, 2, 8),
		}),
		SubscriberCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriber_calls_total",
			Help:      "Subscriber invocations by channel and result.",
		}, []string{"channel", "result"}),
		Transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Outermost deferred transactions.",
		}),
		TransactionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_duration_seconds",
			Help:      "Time from entering a transaction to its publish completing.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.Cycles,
		c.CycleFailures,
		c.CycleDuration,
		c.ObservablesPerCycle,
		c.SubscriberCalls,
		c.Transactions,
		c.TransactionDuration,
	}
}

func (c *Collector) Register(reg prometheus.Registerer) error {
	var errs []error
	for _, col := range c.collectors() {
		errs = append(errs, reg.Register(col))
	}
	return errors.Join(errs...)
}

func (c *Collector) Hooks() batch.Hooks {
	return batch.Hooks{
		OnCycleStart: func(observables int, broadcast bool) {
			c.Cycles.Inc()
			c.ObservablesPerCycle.Observe(float64(observables))
		},
		OnCycleEnd: func(elapsed time.Duration, err error) {
			c.CycleDuration.Observe(elapsed.Seconds())
			if err != nil {
				c.CycleFailures.Inc()
			}
		},
		OnSubscriberInvoked: func(channel string, elapsed time.Duration, err error) {
			result := "ok"
			if err != nil {
				result = "error"
			}
			c.SubscriberCalls.WithLabelValues(channel, result).Inc()
		},
		OnTransactionStart: func() {
			c.Transactions.Inc()
		},
		OnTransactionEnd: func(elapsed time.Duration, err error) {
			c.TransactionDuration.Observe(elapsed.Seconds())
		},
	}
}
