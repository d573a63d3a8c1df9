// Package metrics exposes Prometheus counters for feed processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_processor_runs_total",
		Help: "Number of feed processing runs, by outcome.",
	}, []string{"outcome"})

	PagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_processor_pages_fetched_total",
		Help: "Number of feed pages fetched and parsed.",
	})

	EntriesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_processor_entries_processed_total",
		Help: "Number of feed entries processed.",
	})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_processor_events_total",
		Help: "Number of contract events extracted, by result.",
	}, []string{"result"})

	EventsEnqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_processor_events_enqueued_total",
		Help: "Number of accepted contract events published downstream.",
	})
)
