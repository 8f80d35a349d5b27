// Package metrics exposes Prometheus collectors for tool calls, gateway
// calls, enrichment fallbacks and live sessions.
//
// All methods are no-ops on a nil *Metrics, so components can be built
// without metrics in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roelfdiedericks/slackclaw/internal/gateway"
)

const namespace = "slackclaw"

// Metrics holds the collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	gatewayCalls    *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	fallbacks       *prometheus.CounterVec
}

// New creates metrics on a fresh registry, including Go runtime and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and result code (ok on success).",
		}, []string{"tool", "code"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Wall time of tool calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Messaging platform calls by operation and platform code (ok on success).",
		}, []string{"op", "code"}),
		gatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Latency of messaging platform calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_fallbacks_total",
			Help:      "Identity lookups that degraded to the raw id.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.toolCalls,
		m.toolDuration,
		m.gatewayCalls,
		m.gatewayDuration,
		m.fallbacks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// TrackSessions exports the live session count, read on every scrape.
func (m *Metrics) TrackSessions(count func() int) {
	if m == nil || count == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_live",
		Help:      "Sessions currently held in memory.",
	}, func() float64 { return float64(count()) }))
}

// ObserveTool records one tool call.
func (m *Metrics) ObserveTool(tool, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if code == "" {
		code = "ok"
	}
	m.toolCalls.WithLabelValues(tool, code).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveGatewayCall implements gateway.Observer.
func (m *Metrics) ObserveGatewayCall(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	code := "ok"
	if err != nil {
		code = gateway.ErrorCode(err)
		if code == "" {
			code = "error"
		}
	}
	m.gatewayCalls.WithLabelValues(op, code).Inc()
	m.gatewayDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveEnrichmentFallback implements identity.FallbackObserver.
func (m *Metrics) ObserveEnrichmentFallback(kind string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(kind).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
