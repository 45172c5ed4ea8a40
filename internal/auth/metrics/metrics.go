// Package metrics provides observability for the auth module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks registration and login outcomes.
type Metrics struct {
	Registrations prometheus.Counter
	Logins        prometheus.Counter
	LoginFailures prometheus.Counter
}

// New creates a Metrics instance with all auth module metrics registered.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditcenter_registrations_total",
			Help: "Total number of users registered",
		}),
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditcenter_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditcenter_login_failures_total",
			Help: "Total number of rejected login attempts",
		}),
	}
}

// IncrementRegistrations records a successful registration.
func (m *Metrics) IncrementRegistrations() {
	m.Registrations.Inc()
}

// IncrementLogins records a successful login.
func (m *Metrics) IncrementLogins() {
	m.Logins.Inc()
}

// IncrementLoginFailures records a rejected login attempt.
func (m *Metrics) IncrementLoginFailures() {
	m.LoginFailures.Inc()
}
