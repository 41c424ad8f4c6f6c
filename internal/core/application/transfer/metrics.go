package transfer

import "github.com/prometheus/client_golang/prometheus"

var transfersTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "permavault",
		Subsystem: "bitcoin",
		Name:      "transfers_total",
		Help:      "Number of bitcoin transfers by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(transfersTotal)
}
