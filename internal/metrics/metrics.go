// Package metrics maintains the Prometheus counters and gauges scraped by
// the external collector.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every collector the generator maintains on a private
// Prometheus registry, so tests and multiple instances never collide on the
// default global one.
type Registry struct {
	reg *prometheus.Registry

	LogsGenerated      prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	RequestsByLocation *prometheus.CounterVec
	APIRequests        *prometheus.CounterVec
	EmitErrors         prometheus.Counter
	TicksSkipped       prometheus.Counter
	UserFallbacks      prometheus.Counter

	DDoSActive    prometheus.Gauge
	DDoSRemaining prometheus.Gauge
	Interval      *prometheus.GaugeVec
	ActiveFlows   prometheus.Gauge
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		LogsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "logs_generated_total",
			Help: "Total number of logs generated",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method and status",
		}, []string{"method", "status_code"}),
		RequestsByLocation: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_by_location_total",
			Help: "HTTP requests by geographic location",
		}, []string{"country", "city", "latitude", "longitude"}),
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total control API requests",
		}, []string{"endpoint", "method"}),
		EmitErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "trafficgen_emit_errors_total",
			Help: "Events dropped after exhausting log sink retries",
		}),
		TicksSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "trafficgen_ticks_skipped_total",
			Help: "Generation ticks skipped due to internal errors",
		}),
		UserFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "user_provider_fallbacks_total",
			Help: "User lookups served by the synthetic fallback",
		}),
		DDoSActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ddos_simulation_active",
			Help: "Whether DDoS simulation is currently active",
		}),
		DDoSRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ddos_simulation_remaining_seconds",
			Help: "Remaining seconds of DDoS simulation",
		}),
		Interval: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "traffic_generation_interval_seconds",
			Help: "Current traffic generation interval bounds",
		}, []string{"type"}),
		ActiveFlows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "active_flows_total",
			Help: "Number of active user flows",
		}),
	}
}

// Handler serves the pull-based exposition endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry's gather function for tests.
func (r *Registry) Gather() prometheus.Gatherer {
	return r.reg
}
