// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package metrics exports command buffer recording events
// as Prometheus metrics.
package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gviegas/safecmd/cmdbuf"
)

const namespace = "safecmd"

// Rejection reasons.
const (
	ReasonInvalid  = "invalid"
	ReasonPoisoned = "poisoned"
	ReasonFinished = "finished"
	ReasonNil      = "nil"
)

// Observer implements cmdbuf.Observer by updating
// Prometheus collectors.
type Observer struct {
	recorded *prometheus.CounterVec
	rejected *prometheus.CounterVec
	poisoned *prometheus.CounterVec
	finished prometheus.Counter
	commands prometheus.Histogram
}

var _ cmdbuf.Observer = &Observer{}

// New creates an Observer and registers its collectors
// with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &Observer{
		recorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "commands",
				Name:      "recorded_total",
				Help:      "Number of commands recorded into command buffers",
			},
			[]string{"command"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "commands",
				Name:      "rejected_total",
				Help:      "Number of commands rejected without poisoning the recorder",
			},
			[]string{"command", "reason"},
		),
		poisoned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recorders",
				Name:      "poisoned_total",
				Help:      "Number of recorders poisoned by sequencing errors",
			},
			[]string{"command"},
		),
		finished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "buffers",
				Name:      "finished_total",
				Help:      "Number of command buffers finished",
			},
		),
		commands: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "buffers",
				Name:      "commands",
				Help:      "Number of commands per finished command buffer",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
	for _, c := range [...]prometheus.Collector{o.recorded, o.rejected, o.poisoned, o.finished, o.commands} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "metrics: failed to register collector")
		}
	}
	return o, nil
}

// Recorded implements cmdbuf.Observer.
func (o *Observer) Recorded(cmd string) { o.recorded.WithLabelValues(cmd).Inc() }

// Rejected implements cmdbuf.Observer.
func (o *Observer) Rejected(cmd string, err error) {
	o.rejected.WithLabelValues(cmd, Reason(err)).Inc()
}

// Poisoned implements cmdbuf.Observer.
func (o *Observer) Poisoned(cmd string, _ error) { o.poisoned.WithLabelValues(cmd).Inc() }

// Finished implements cmdbuf.Observer.
func (o *Observer) Finished(n int) {
	o.finished.Inc()
	o.commands.Observe(float64(n))
}

// Reason classifies an error reported by
// cmdbuf.Observer.Rejected.
func Reason(err error) string {
	switch {
	case errors.Is(err, cmdbuf.ErrPoisoned):
		return ReasonPoisoned
	case errors.Is(err, cmdbuf.ErrFinished):
		return ReasonFinished
	case errors.Is(err, cmdbuf.ErrNilCommand):
		return ReasonNil
	}
	return ReasonInvalid
}
