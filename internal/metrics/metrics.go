// Package metrics registers the Prometheus instruments for the raffle
// core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PurchasesTotal counts ticket purchase attempts by outcome:
	// "ok", "payment_failed", "closed", "captured_not_recorded", "error".
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rafflebox_purchases_total",
		Help: "Ticket purchase attempts by outcome.",
	}, []string{"outcome"})

	// AdmissionsTotal counts entries durably recorded.
	AdmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rafflebox_admissions_total",
		Help: "Entries successfully appended to a raffle.",
	})

	// DrawsTotal counts winner draws by outcome: "ok", "no_entries",
	// "already_drawn", "forbidden", "error".
	DrawsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rafflebox_draws_total",
		Help: "Winner draw attempts by outcome.",
	}, []string{"outcome"})
)
