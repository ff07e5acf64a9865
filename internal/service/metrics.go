package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values for send outcomes.
const (
	statusSent   = "sent"
	statusFailed = "failed"
)

var (
	remindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_reminders_total",
			Help: "Overdue reminder send attempts by outcome.",
		},
		[]string{"status"},
	)

	newsletterEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_newsletter_emails_total",
			Help: "Newsletter and blast emails by outcome.",
		},
		[]string{"status"},
	)
)
