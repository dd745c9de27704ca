package governor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "replycomb_runs_total",
	Help: "Number of governor runs by outcome",
}, []string{"outcome"})

var itemsSeen = promauto.NewCounter(prometheus.CounterOpts{
	Name: "replycomb_items_seen_total",
	Help: "Number of fetched items evaluated",
})

var itemsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "replycomb_items_rejected_total",
	Help: "Number of items skipped, by reason",
}, []string{"reason"})

var repliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "replycomb_replies_total",
	Help: "Number of replies made, by mode",
}, []string{"mode"})
