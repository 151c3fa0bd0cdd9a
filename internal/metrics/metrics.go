// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. Each instance owns its registry so tests can
// create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	BillsSaved    *prometheus.CounterVec
	SplitsTotal   *prometheus.CounterVec
	Undistributed *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitbill",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		BillsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "bills_saved_total",
			Help:      "Bills saved by category.",
		}, []string{"category"}),
		SplitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "splits_calculated_total",
			Help:      "Split calculations by category.",
		}, []string{"category"}),
		Undistributed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "undistributed_amount_total",
			Help:      "Money left unowed by a split, by kind (unassigned_item, surcharge).",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.BillsSaved,
		m.SplitsTotal,
		m.Undistributed,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
