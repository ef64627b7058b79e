package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignupsTotal counts accepted waitlist submissions
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Total number of accepted waitlist submissions",
		},
	)

	// VerificationsTotal counts email verification attempts by result
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_verifications_total",
			Help: "Total number of email verification attempts",
		},
		[]string{"result"},
	)

	// AdminActionsTotal counts privileged admin operations by action
	AdminActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_admin_actions_total",
			Help: "Total number of admin operations",
		},
		[]string{"action"},
	)

	// EmailSendsTotal counts verification email deliveries by outcome
	EmailSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_email_sends_total",
			Help: "Total number of verification email send attempts",
		},
		[]string{"outcome"},
	)
)

// Verification results
const (
	ResultVerified        = "verified"
	ResultAlreadyVerified = "already_verified"
	ResultNotFound        = "not_found"
)

// Email send outcomes
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)
