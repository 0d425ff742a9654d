// Package metrics provides Prometheus metrics for the config daemon
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nainya/ftsconfig/pkg/config"
	"github.com/nainya/ftsconfig/pkg/settings"
)

// Metrics holds all Prometheus metrics for the config daemon
type Metrics struct {
	// gRPC request metrics
	GrpcRequestsTotal    *prometheus.CounterVec
	GrpcRequestDuration  *prometheus.HistogramVec
	GrpcRequestsInFlight prometheus.Gauge

	// Config file metrics
	ConfigOperationsTotal   *prometheus.CounterVec
	ConfigOperationDuration *prometheus.HistogramVec

	// Flattened settings
	ListEntries      *prometheus.GaugeVec
	CacheExpiryRules prometheus.Gauge
	Enabled          prometheus.Gauge

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

var _ config.Observer = (*Metrics)(nil)

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftsconfig_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ftsconfig_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.GrpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ftsconfig_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	m.ConfigOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftsconfig_config_operations_total",
			Help: "Total number of config file loads and saves",
		},
		[]string{"operation", "status"},
	)

	m.ConfigOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ftsconfig_config_operation_duration_seconds",
			Help:    "Duration of config file loads and saves in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	m.ListEntries = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ftsconfig_list_entries",
			Help: "Number of entries in each list-valued setting",
		},
		[]string{"list"},
	)

	m.CacheExpiryRules = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ftsconfig_cache_expiry_rules",
			Help: "Number of loaded cache expiry rules",
		},
	)

	m.Enabled = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ftsconfig_enabled",
			Help: "1 when full-text search is enabled",
		},
	)

	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ftsconfig_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// RunUptime updates the uptime gauge every interval until done is closed
func (m *Metrics) RunUptime(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
		}
	}
}

// RecordGrpcRequest records a gRPC request with its status
func (m *Metrics) RecordGrpcRequest(method string, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveOperation records a config load or save
func (m *Metrics) ObserveOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ConfigOperationsTotal.WithLabelValues(operation, status).Inc()
	m.ConfigOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveSettings updates the gauges describing the flattened settings
func (m *Metrics) ObserveSettings(s settings.Settings) {
	m.ListEntries.WithLabelValues(config.ListDisallowedContentTypes).Set(float64(len(s.DisallowedContentTypeAliases)))
	m.ListEntries.WithLabelValues(config.ListDisallowedProperties).Set(float64(len(s.DisallowedPropertyAliases)))
	m.ListEntries.WithLabelValues(config.ListXPathsToRemove).Set(float64(len(s.XPathsToRemove)))
	m.CacheExpiryRules.Set(float64(len(s.CacheExpiryRules)))
	if s.Enabled {
		m.Enabled.Set(1)
	} else {
		m.Enabled.Set(0)
	}
}
