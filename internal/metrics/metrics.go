// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package metrics turns loop lifecycle events and plan results into Prometheus metrics.
// The collector owns its registry, so several collectors can coexist in one process,
// and it can write the node_exporter textfile format for batch runs.
package metrics

import (
	"sync"
	"time"

	"github.com/matt-FFFFFF/coop/internal/plan"
	"github.com/matt-FFFFFF/coop/internal/progress"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coop"

var _ progress.Reporter = (*Collector)(nil)

// Collector is a progress.Reporter that records unit and plan metrics.
type Collector struct {
	registry *prometheus.Registry

	events       *prometheus.CounterVec
	running      prometheus.Gauge
	unitDuration *prometheus.HistogramVec
	planDuration *prometheus.GaugeVec
	planTasks    *prometheus.GaugeVec

	mu      sync.Mutex
	started map[uint64]time.Time
}

// New returns a collector with its metrics registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unit_events_total",
				Help:      "Lifecycle events emitted by the loop, by event type.",
			},
			[]string{"event"},
		),
		running: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "units_running",
				Help:      "Units of work that have started and not yet finished.",
			},
		),
		unitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "unit_duration_seconds",
				Help:      "Time from a unit starting to finishing, in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		planDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "plan_duration_seconds",
				Help:      "Duration of the last execution of each plan, in seconds.",
			},
			[]string{"plan", "status"},
		),
		planTasks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "plan_tasks",
				Help:      "Tasks of the last execution of each plan, by status.",
			},
			[]string{"plan", "status"},
		),
		started: make(map[uint64]time.Time),
	}

	c.registry.MustRegister(c.events, c.running, c.unitDuration, c.planDuration, c.planTasks)

	for _, et := range []progress.EventType{
		progress.EventScheduled,
		progress.EventStarted,
		progress.EventCompleted,
		progress.EventFailed,
		progress.EventCancelled,
	} {
		c.events.WithLabelValues(et.String())
	}

	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Report implements progress.Reporter.
func (c *Collector) Report(e progress.Event) {
	c.events.WithLabelValues(e.Type.String()).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case e.Type == progress.EventStarted:
		c.started[e.TaskID] = e.Timestamp
		c.running.Inc()
	case e.Type.Terminal():
		start, ok := c.started[e.TaskID]
		if !ok {
			return
		}

		delete(c.started, e.TaskID)
		c.running.Dec()
		c.unitDuration.WithLabelValues(e.Type.String()).Observe(e.Timestamp.Sub(start).Seconds())
	}
}

// Close implements progress.Reporter.
func (c *Collector) Close() {}

// ObservePlan records the outcome of a plan execution, replacing any earlier one for the
// same plan name.
func (c *Collector) ObservePlan(r *plan.Result) {
	c.planDuration.DeletePartialMatch(prometheus.Labels{"plan": r.Label})
	c.planDuration.WithLabelValues(r.Label, r.Status.String()).Set(r.Duration.Seconds())

	for _, s := range plan.Statuses {
		c.planTasks.WithLabelValues(r.Label, s.String()).Set(float64(plan.Results{r}.Count(s)))
	}
}

// WriteTextfile writes every metric to path in the Prometheus text format.
// The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
