package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_remote_fetch_total",
			Help: "Remote catalog fetches by outcome",
		},
		[]string{"outcome"},
	)

	cartAdds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_add_total",
			Help: "Add-to-cart calls by result",
		},
		[]string{"result"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_sessions_active",
			Help: "Sessions currently held in memory",
		},
	)
)
