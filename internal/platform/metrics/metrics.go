// Package metrics exposes the ledger's Prometheus instrumentation. Counters
// are registered once at init via promauto and scraped from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransactionsCommitted counts ledger records by kind
// (deposit, withdrawal, transfer_debit, transfer_credit, initial_balance).
var TransactionsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dollarsbank",
	Name:      "transactions_committed_total",
	Help:      "Number of transactions committed to the ledger, by kind.",
}, []string{"kind"})

// OperationsRejected counts failed core operations by reason
// (overdraft, invalid_amount, duplicate_email, auth_failed, not_found).
var OperationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dollarsbank",
	Name:      "operations_rejected_total",
	Help:      "Number of core operations rejected, by reason.",
}, []string{"reason"})
