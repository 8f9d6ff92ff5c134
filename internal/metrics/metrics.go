package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Account Metrics
	SignupsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_signups_started_total",
		Help: "Total number of signups that reached the OTP step.",
	})
	AccountsVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_accounts_verified_total",
		Help: "Total number of accounts whose email was verified.",
	}, []string{"flow"}) // flow: "signup" or "email_otp"
	PasswordResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_password_resets_total",
		Help: "Total number of completed password resets.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts by outcome.",
	}, []string{"status"}) // status: "success", "not_found", "bad_password", "unverified", "error"
	OTPEmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_emails_sent_total",
		Help: "Total number of OTP emails handed to the mail server.",
	}, []string{"purpose", "status"})

	// Matching and Generation Metrics
	MatchesComputedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_matches_computed_total",
		Help: "Total number of resume/job matches by tier.",
	}, []string{"tier"})
	InterviewGenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_interview_generations_total",
		Help: "Total number of interview question generations by outcome.",
	}, []string{"status"}) // status: "success", "unavailable", "upstream_error", "malformed"
)
