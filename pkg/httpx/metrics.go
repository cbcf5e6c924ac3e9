package httpx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	guardDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "guard",
		Name:      "denials_total",
		Help:      "Requests rejected by the access guard, by reason.",
	}, []string{"reason"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by rate limiting.",
	})
)
