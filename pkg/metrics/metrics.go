package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lifecycle counters exposed on /metrics
var (
	ContractsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_issued_total",
		Help: "Contracts issued from templates",
	})
	ContractsSigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_signed_total",
		Help: "Contracts signed",
	})
	ContractsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_cancelled_total",
		Help: "Contracts invalidated before signing",
	})
	ContractsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_expired_total",
		Help: "Contracts expired by the sweep",
	})
	IdentifierRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contract_identifier_retries_total",
		Help: "Code/token generation retries after a uniqueness collision",
	})
)
