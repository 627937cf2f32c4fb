package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	vaasVerified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "corebridge_vaas_verified_total",
			Help: "Total number of VAAs that passed signature verification",
		})
	vaasRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corebridge_vaas_rejected_total",
			Help: "Total number of VAAs rejected, by reason",
		}, []string{"reason"})
	governanceExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corebridge_governance_executed_total",
			Help: "Total number of governance actions executed, by action code",
		}, []string{"action"})
)
