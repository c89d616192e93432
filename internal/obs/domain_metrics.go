package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Calculation outcomes used as the result label.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
)

var (
	domainOnce sync.Once

	// PaymentCalculationsTotal counts payment calculations by method and outcome.
	PaymentCalculationsTotal *prometheus.CounterVec
	// PaymentCalculationAmount records the payable totals of successful calculations.
	PaymentCalculationAmount *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PaymentCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_calculations_total",
			Help:      "Count of payment calculations by method and outcome.",
		}, []string{"method", "result"})
		PaymentCalculationAmount = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_calculation_amount",
			Help:      "Distribution of calculated payable totals.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"method"})

		mustRegisterCollector(reg, PaymentCalculationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentCalculationsTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentCalculationAmount, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				PaymentCalculationAmount = v
			}
		})
	})
}

// ObservePaymentCalculation records a calculation outcome. It is a no-op until
// MustRegisterDomainMetrics has run.
func ObservePaymentCalculation(method, result string, total float64) {
	if method == "" {
		method = "unknown"
	}
	if PaymentCalculationsTotal != nil {
		PaymentCalculationsTotal.WithLabelValues(method, result).Inc()
	}
	if result == ResultOK && PaymentCalculationAmount != nil {
		PaymentCalculationAmount.WithLabelValues(method).Observe(total)
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
