package metrics

import "github.com/prometheus/client_golang/prometheus"

// BillingMetrics tracks the proration engine's behavior in production.
type BillingMetrics struct {
	allocationRuns  *prometheus.CounterVec
	consumedPeriods prometheus.Counter
	creditedBani    prometheus.Counter
}

// NewBillingMetrics registers the billing metrics on the provided registerer.
func NewBillingMetrics(reg prometheus.Registerer) *BillingMetrics {
	if reg == nil {
		return &BillingMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_allocation_runs_total",
		Help: "Allocation passes executed, labeled by charge kind.",
	}, []string{"kind"})
	consumed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "billing_absence_periods_consumed_total",
		Help: "Absence periods consumed by the allocation engine.",
	})
	credited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "billing_credited_bani_total",
		Help: "Total credit applied to charges, in bani.",
	})
	reg.MustRegister(runs, consumed, credited)
	return &BillingMetrics{
		allocationRuns:  runs,
		consumedPeriods: consumed,
		creditedBani:    credited,
	}
}

// ObserveAllocation records one allocation pass and its outcome.
func (b *BillingMetrics) ObserveAllocation(kind string, periodsConsumed int, creditedBani int64) {
	if b == nil || b.allocationRuns == nil {
		return
	}
	b.allocationRuns.WithLabelValues(jobLabel(kind)).Inc()
	b.consumedPeriods.Add(float64(periodsConsumed))
	if creditedBani > 0 {
		b.creditedBani.Add(float64(creditedBani))
	}
}
