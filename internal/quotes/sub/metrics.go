package sub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sub_active",
		Help: "Active subscriptions",
	})
	SubsOpenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sub_open_total",
		Help: "Total subscriptions opened",
	})
	EventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sub_events_total",
		Help: "Total update events emitted to consumers",
	})
	TicksSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sub_ticks_skipped_total",
		Help: "Ticks that produced no event (unknown symbol or empty set)",
	})
	DroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sub_events_dropped_total",
		Help: "Events dropped because the consumer was not pulling",
	})
)
