package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the defense layer.
type Metrics struct {
	SubmissionsTotal  *prometheus.CounterVec
	ThrottleDenied    *prometheus.CounterVec
	TokensIssued      prometheus.Counter
	TokenValidations  *prometheus.CounterVec
	FieldsRejected    *prometheus.CounterVec
	InjectionSignals  *prometheus.CounterVec
	SubmitLatency     prometheus.Histogram
	ThrottleStoreSize *prometheus.GaugeVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_submissions_total",
			Help: "Total contact form submissions, labeled by outcome",
		}, []string{"outcome"}),
		ThrottleDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_throttle_denied_total",
			Help: "Total requests denied by the throttle, labeled by profile",
		}, []string{"profile"}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formgate_tokens_issued_total",
			Help: "Total anti-forgery tokens issued",
		}),
		TokenValidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_token_validations_total",
			Help: "Total anti-forgery token validations, labeled by result",
		}, []string{"result"}),
		FieldsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_fields_rejected_total",
			Help: "Total schema validation failures, labeled by field",
		}, []string{"field"}),
		InjectionSignals: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_injection_signals_total",
			Help: "Total SQL-injection pattern detections, labeled by field",
		}, []string{"field"}),
		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "formgate_submit_latency_seconds",
			Help:    "Latency of contact submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ThrottleStoreSize: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "formgate_throttle_entries",
			Help: "Current number of tracked throttle identifiers, labeled by profile",
		}, []string{"profile"}),
	}
}
