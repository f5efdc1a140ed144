package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by key kind and result (hit, miss, error).",
	}, []string{"kind", "result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "ratelimit",
		Name:      "denied_total",
		Help:      "Requests denied by the rate limiter per action.",
	}, []string{"action"})
)
