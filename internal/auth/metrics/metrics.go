// Package metrics exposes the auth core's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins counts login attempts by result: success, invalid_credentials,
	// role_mismatch, inactive.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatehouse_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	// Refreshes counts refresh attempts by result: success, invalid,
	// revoked, stale_version, inactive.
	Refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatehouse_token_refreshes_total",
		Help: "Refresh token exchanges by result.",
	}, []string{"result"})

	// SessionsRevoked counts bulk session revocations (token version bumps).
	SessionsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatehouse_sessions_revoked_total",
		Help: "Bulk session revocations performed by administrators.",
	})
)
