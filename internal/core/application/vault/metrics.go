package vault

import "github.com/prometheus/client_golang/prometheus"

var unlocksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "permavault",
		Subsystem: "vault",
		Name:      "unlocks_total",
		Help:      "Number of unlock attempts by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(unlocksTotal)
}
