// Package metrics defines and registers all custom Prometheus metrics for
// the identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package load; the router
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// RegistrationsTotal counts accounts created, labelled by origin
// ("local" or "federated").
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by origin.",
	},
	[]string{"origin"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - method: "password" or "federated"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// VerificationsTotal counts verification-link redemptions.
// Label:
//   - result: "verified", "already_verified", or "rejected"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of verification-token redemptions, by result.",
	},
	[]string{"result"},
)

// AuthzDenialsTotal counts request-guard denials.
// Label:
//   - reason: "unauthenticated", "unverified", or "forbidden"
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of authorization denials, by reason.",
	},
	[]string{"reason"},
)

// EmailsTotal counts verification-email delivery attempts.
// Label:
//   - result: "sent" or "failed"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of verification-email deliveries, by result.",
	},
	[]string{"result"},
)

// ProviderRequestSeconds observes identity-provider round-trip latency.
var ProviderRequestSeconds = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_seconds",
		Help:      "Latency of identity-provider verification round trips.",
		Buckets:   prometheus.DefBuckets,
	},
)
