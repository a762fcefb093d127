// Package metrics exposes Prometheus collectors for the Qodana Cloud client.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeOffline = "offline"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Discovery cache results.
const (
	CacheHit    = "hit"
	CacheShared = "shared"
	CacheMiss   = "miss"
	CacheReset  = "reset"
)

// Collector provides Prometheus metrics for the transport and the
// discovery cache. It is safe for concurrent use; a nil *Collector records
// nothing.
type Collector struct {
	requestsTotal  *prometheus.CounterVec
	attemptsTotal  *prometheus.CounterVec
	retriesTotal   *prometheus.CounterVec
	discoveryTotal *prometheus.CounterVec
}

// NewCollector creates a collector on the default registerer.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector using the supplied registerer.
func NewCollectorWithRegistry(registry prometheus.Registerer) *Collector {
	return &Collector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "qdcloud_requests_total",
				Help: "Total number of logical Qodana Cloud requests by outcome",
			},
			[]string{"method", "outcome"},
		),
		attemptsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "qdcloud_request_attempts_total",
				Help: "Total number of HTTP attempts by status code",
			},
			[]string{"method", "status_code"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "qdcloud_retries_total",
				Help: "Total number of retried attempts",
			},
			[]string{"method"},
		),
		discoveryTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "qdcloud_discovery_cache_total",
				Help: "API version discovery lookups by cache result",
			},
			[]string{"result"},
		),
	}
}

// RecordRequest counts a finished logical request.
func (c *Collector) RecordRequest(method, outcome string) {
	if c == nil {
		return
	}

	c.requestsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordAttempt counts one HTTP attempt; statusCode 0 means no response.
func (c *Collector) RecordAttempt(method string, statusCode int) {
	if c == nil {
		return
	}

	c.attemptsTotal.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// RecordRetry counts a retry decision.
func (c *Collector) RecordRetry(method string) {
	if c == nil {
		return
	}

	c.retriesTotal.WithLabelValues(method).Inc()
}

// RecordDiscovery counts a discovery cache lookup.
func (c *Collector) RecordDiscovery(result string) {
	if c == nil {
		return
	}

	c.discoveryTotal.WithLabelValues(result).Inc()
}
