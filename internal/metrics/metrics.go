// Package metrics holds the process-wide Prometheus collectors. They
// register on the default registry and are served by the status server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal counts status updates emitted by check tasks.
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkmon_updates_total",
		Help: "Status updates emitted by check tasks.",
	}, []string{"check", "status"})

	// AlertPostsTotal counts POSTs to the alert sink by outcome.
	AlertPostsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkmon_alert_posts_total",
		Help: "POSTs of the active-alert set to the alert sink.",
	}, []string{"outcome"})

	// ActiveAlerts tracks the size of the active-alert set.
	ActiveAlerts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "checkmon_active_alerts",
		Help: "Currently active alerts held by the dispatcher.",
	})
)
