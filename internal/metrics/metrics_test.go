package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	collector := NewCollectorWithRegistry(prometheus.NewRegistry())

	collector.RecordRequest("GET", OutcomeSuccess)
	collector.RecordRequest("GET", OutcomeSuccess)
	collector.RecordAttempt("GET", 503)
	collector.RecordAttempt("GET", 0)
	collector.RecordRetry("GET")
	collector.RecordDiscovery(CacheMiss)

	assert.InDelta(t, 2, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("GET", OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.attemptsTotal.WithLabelValues("GET", "503")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.attemptsTotal.WithLabelValues("GET", "0")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.retriesTotal.WithLabelValues("GET")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.discoveryTotal.WithLabelValues(CacheMiss)), 0)
}

func TestCollector_Nil(t *testing.T) {
	t.Parallel()

	var collector *Collector

	assert.NotPanics(t, func() {
		collector.RecordRequest("GET", OutcomeOffline)
		collector.RecordAttempt("GET", 500)
		collector.RecordRetry("GET")
		collector.RecordDiscovery(CacheHit)
	})
}
