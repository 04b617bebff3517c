// Package metrics exposes Prometheus counters for record operations and the
// demo live feeds.
package metrics

import (
	"context"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const namespace = "opsconsole"

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry    *prometheus.Registry
	recordOps   *prometheus.CounterVec
	feedTicks   *prometheus.CounterVec
	feedRunning *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recordOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_ops_total",
			Help:      "Record inserts, updates and deletes by table and result.",
		}, []string{"table", "op", "result"}),
		feedTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "livefeed_ticks_total",
			Help:      "Live feed ticks applied per campaign platform.",
		}, []string{"platform"}),
		feedRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "livefeed_running",
			Help:      "1 while a platform's live feed is running.",
		}, []string{"platform"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.recordOps,
		m.feedTicks,
		m.feedRunning,
	)
	return m
}

// RecordChanged implements records.Observer.
func (m *Metrics) RecordChanged(_ context.Context, table string, op records.Op, _ primitive.ObjectID, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.recordOps.WithLabelValues(table, string(op), result).Inc()
}

func (m *Metrics) LiveFeedTick(platform string, _ int) {
	m.feedTicks.WithLabelValues(platform).Inc()
}

func (m *Metrics) LiveFeedState(platform string, running bool) {
	v := 0.0
	if running {
		v = 1
	}
	m.feedRunning.WithLabelValues(platform).Set(v)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
