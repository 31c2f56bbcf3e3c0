// Package metrics exposes Prometheus counters for billing and sign-in.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is safe to use as a nil pointer; every method is then a no-op.
type Recorder struct {
	billsCreated  *prometheus.CounterVec
	billsDeleted  prometheus.Counter
	revenue       prometheus.Counter
	loginAttempts *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		billsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bills_created_total",
			Help: "Bills created, by game zone and payment method.",
		}, []string{"zone", "payment_method"}),
		billsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "bills_deleted_total",
			Help: "Bills deleted by administrators.",
		}),
		revenue: f.NewCounter(prometheus.CounterOpts{
			Name: "bill_revenue_total",
			Help: "Sum of final amounts of created bills.",
		}),
		loginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Sign-in attempts by result.",
		}, []string{"result"}),
	}
}

func (r *Recorder) BillCreated(zone, paymentMethod string, finalAmount float64) {
	if r == nil {
		return
	}
	r.billsCreated.WithLabelValues(zone, paymentMethod).Inc()
	r.revenue.Add(finalAmount)
}

func (r *Recorder) BillDeleted() {
	if r == nil {
		return
	}
	r.billsDeleted.Inc()
}

func (r *Recorder) LoginAttempt(ok bool) {
	if r == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	r.loginAttempts.WithLabelValues(result).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
