package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chinpay"

// Metrics holds service instruments. Nil *Metrics is valid and records nothing.
type Metrics struct {
	ordersCreated   prometheus.Counter
	ordersFinalized *prometheus.CounterVec
	confirmations   *prometheus.CounterVec
	redemptions     *prometheus.CounterVec
	evictions       prometheus.Counter
}

// New creates instruments and registers them in reg.
// size reports current number of orders held in memory.
func New(reg prometheus.Registerer, size func() int) *Metrics {
	m := &Metrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders created.",
		}),
		ordersFinalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_finalized_total",
			Help:      "Orders that reached a terminal status.",
		}, []string{"status"}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_total",
			Help:      "Payment confirmations by outcome.",
		}, []string{"outcome"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cdk_redemptions_total",
			Help:      "CDK redemption attempts by result.",
		}, []string{"result"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_evictions_total",
			Help:      "Orders evicted from memory by the sweeper.",
		}),
	}

	reg.MustRegister(m.ordersCreated, m.ordersFinalized, m.confirmations, m.redemptions, m.evictions)

	if size != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_orders",
			Help:      "Orders currently held in memory.",
		}, func() float64 { return float64(size()) }))
	}

	return m
}

// OrderCreated counts created order
func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// OrderFinalized counts order reaching terminal status
func (m *Metrics) OrderFinalized(status string) {
	if m == nil {
		return
	}
	m.ordersFinalized.WithLabelValues(status).Inc()
}

// Confirmation counts confirmation outcome
func (m *Metrics) Confirmation(outcome string) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(outcome).Inc()
}

// Redemption counts redemption result: "ok", "rejected" or "error"
func (m *Metrics) Redemption(result string) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(result).Inc()
}

// Evicted counts orders removed by sweep
func (m *Metrics) Evicted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evictions.Add(float64(n))
}
