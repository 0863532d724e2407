// Package metrics exposes Prometheus counters for the auth flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels.
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth_portal",
		Name:      "registrations_total",
		Help:      "Registration attempts by result.",
	}, []string{"result"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth_portal",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "auth_portal",
		Name:      "session_streams_active",
		Help:      "Open session websocket streams.",
	})

	PurgedTokens = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auth_portal",
		Name:      "refresh_tokens_purged_total",
		Help:      "Expired refresh tokens removed by the janitor.",
	})
)
