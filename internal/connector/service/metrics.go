package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Transitions   *prometheus.CounterVec
	RemoteCalls   *prometheus.HistogramVec
	Confirmations *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scaconnect",
			Name:      "transitions_total",
			Help:      "SCA steps by operation and outcome.",
		}, []string{"operation", "outcome"}),
		RemoteCalls: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scaconnect",
			Name:      "remote_call_duration_seconds",
			Help:      "Latency of calls to the ledgers authority.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call", "result"}),
		Confirmations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scaconnect",
			Name:      "confirmations_total",
			Help:      "Confirmation code checks by mode and result.",
		}, []string{"mode", "result"}),
	}
}

func (m *Metrics) transition(op string, err error) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(op, outcomeLabel(err)).Inc()
}

func (m *Metrics) remote(call string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.RemoteCalls.WithLabelValues(call, outcomeLabel(err)).Observe(d.Seconds())
}

func (m *Metrics) confirmation(mode string, ok bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "confirmed"
	}
	m.Confirmations.WithLabelValues(mode, result).Inc()
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var e *domain.Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return "error"
}
