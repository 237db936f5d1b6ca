package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Heartbeats counts accepted heartbeat requests.
	Heartbeats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keygate_heartbeats_total",
		Help: "Accepted heartbeat requests.",
	})

	// HeartbeatsRejected counts heartbeats refused because the subscriber
	// was unknown or the request was malformed.
	HeartbeatsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keygate_heartbeats_rejected_total",
		Help: "Heartbeat requests rejected before touching the registry.",
	})

	// Evictions counts identities removed from the presence registry after
	// the heartbeat window elapsed.
	Evictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keygate_presence_evictions_total",
		Help: "Identities evicted from the presence registry.",
	})

	// Online tracks the number of identities currently online across all
	// products.
	Online = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "keygate_presence_online",
		Help: "Identities currently online across all products.",
	})
)
