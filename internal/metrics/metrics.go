package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the daemon's protocol-operation counters. Register once
// per process; the zero-value nil pointer is safe to call so library users
// can opt out.
type Metrics struct {
	EnvelopesSealed    prometheus.Counter
	EnvelopesOpened    *prometheus.CounterVec
	BreadcrumbsCreated prometheus.Counter
	EpochsPublished    prometheus.Counter
	EpochVerifications *prometheus.CounterVec
	RPCDuration        *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EnvelopesSealed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gns_envelopes_sealed_total",
			Help: "Envelopes sealed by the local identity.",
		}),
		EnvelopesOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gns_envelopes_opened_total",
			Help: "Envelope open attempts by outcome.",
		}, []string{"result"}),
		BreadcrumbsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gns_breadcrumbs_created_total",
			Help: "Breadcrumbs signed by the local identity.",
		}),
		EpochsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gns_epochs_published_total",
			Help: "Trajectory epochs published.",
		}),
		EpochVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gns_epoch_verifications_total",
			Help: "Epoch chain verifications by outcome.",
		}, []string{"result"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gns_rpc_duration_seconds",
			Help:    "JSON-RPC request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(
		m.EnvelopesSealed,
		m.EnvelopesOpened,
		m.BreadcrumbsCreated,
		m.EpochsPublished,
		m.EpochVerifications,
		m.RPCDuration,
	)
	return m
}

func (m *Metrics) SealInc() {
	if m != nil {
		m.EnvelopesSealed.Inc()
	}
}

func (m *Metrics) OpenInc(result string) {
	if m != nil {
		m.EnvelopesOpened.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) BreadcrumbInc() {
	if m != nil {
		m.BreadcrumbsCreated.Inc()
	}
}

func (m *Metrics) EpochInc() {
	if m != nil {
		m.EpochsPublished.Inc()
	}
}

func (m *Metrics) VerifyInc(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.EpochVerifications.WithLabelValues("ok").Inc()
	} else {
		m.EpochVerifications.WithLabelValues("invalid").Inc()
	}
}

func (m *Metrics) ObserveRPC(method string, seconds float64) {
	if m != nil {
		m.RPCDuration.WithLabelValues(method).Observe(seconds)
	}
}
