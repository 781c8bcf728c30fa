package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "movimenta"

var (
	swipesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "swipes_total",
		Help:      "Swipes recorded, by direction.",
	}, []string{"direction"})

	pairingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "pairings_created_total",
		Help:      "Pairings created from mutual likes.",
	})

	undoTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "swipe_undo_total",
		Help:      "Swipes retracted with undo.",
	})

	swapsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "swaps_confirmed_total",
		Help:      "Pairings confirmed by both parties.",
	})

	managerDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "manager_decisions_total",
		Help:      "Manager approvals and rejections.",
	}, []string{"decision"})

	referenceCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "reference_cache_requests_total",
		Help:      "Reference data lookups, by cache result.",
	}, []string{"result"})
)
