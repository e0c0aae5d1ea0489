package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for credit and generation flows.
type Metrics struct {
	Generations     *prometheus.CounterVec
	Refunds         *prometheus.CounterVec
	ProviderLatency prometheus.Histogram
	Settlements     *prometheus.CounterVec
	CreditsDebited  prometheus.Counter
	CreditsCredited *prometheus.CounterVec
}

// New registers collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imagegen",
			Name:      "generations_total",
			Help:      "Image generation attempts by outcome.",
		}, []string{"outcome"}),
		Refunds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imagegen",
			Name:      "refunds_total",
			Help:      "Reserved credits returned after a failed generation.",
		}, []string{"result"}),
		ProviderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "imagegen",
			Name:      "provider_request_seconds",
			Help:      "Latency of image provider calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
		}),
		Settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imagegen",
			Name:      "settlements_total",
			Help:      "Payment verification attempts by outcome.",
		}, []string{"outcome"}),
		CreditsDebited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "imagegen",
			Name:      "credits_debited_total",
			Help:      "Credits removed from balances.",
		}),
		CreditsCredited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imagegen",
			Name:      "credits_credited_total",
			Help:      "Credits added to balances by kind.",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Generations,
			m.Refunds,
			m.ProviderLatency,
			m.Settlements,
			m.CreditsDebited,
			m.CreditsCredited,
		)
	}
	return m
}

// NewNop returns collectors that are not registered anywhere.
func NewNop() *Metrics {
	return New(nil)
}
