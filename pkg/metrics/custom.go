package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RateLimitBlockTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickstream",
			Name:      "ratelimit_block_total",
			Help:      "Total number of rate limit blocks.",
		},
		[]string{"service", "route", "reason"},
	)

	QuoteRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickstream",
			Name:      "quote_request_total",
			Help:      "Total number of quote resolutions, partitioned by kind and result.",
		},
		[]string{"kind", "result"}, // kind: single/batch, result: ok/not_found
	)
)

func MustRegister() {
	prometheus.MustRegister(RateLimitBlockTotal, QuoteRequestTotal)
}
