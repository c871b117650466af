package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "schoolhub_cache_requests_total",
	Help: "Cache-aside lookups by result (hit, miss, error).",
}, []string{"result"})

var invalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "schoolhub_cache_invalidations_total",
	Help: "Keys dropped by write-path invalidation.",
})
