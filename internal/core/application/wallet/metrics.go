package wallet

import "github.com/prometheus/client_golang/prometheus"

var walletsAddedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "permavault",
		Subsystem: "wallet",
		Name:      "added_total",
		Help:      "Number of wallets created or imported by chain.",
	},
	[]string{"chain"},
)

func init() {
	prometheus.MustRegister(walletsAddedTotal)
}
