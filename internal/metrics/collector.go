package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"domainscout/pkg/registrar"
)

// StatusSource is implemented by *registrar.Client.
type StatusSource interface {
	Status() registrar.ClientStatus
}

var (
	queueLengthDesc = prometheus.NewDesc(
		"domainscout_registrar_queue_length",
		"Requests waiting in the registrar queue",
		nil,
		nil,
	)
	queueProcessingDesc = prometheus.NewDesc(
		"domainscout_registrar_queue_processing",
		"1 while the registrar worker loop is running",
		nil,
		nil,
	)
	cacheEntriesDesc = prometheus.NewDesc(
		"domainscout_cache_entries",
		"Response cache entries by state",
		[]string{"state"},
		nil,
	)
	rateLimitRemainingDesc = prometheus.NewDesc(
		"domainscout_rate_limit_remaining",
		"Calls left in the current upstream window",
		[]string{"endpoint"},
		nil,
	)
	rateLimitResetDesc = prometheus.NewDesc(
		"domainscout_rate_limit_reset_timestamp_seconds",
		"Unix time the current upstream window resets",
		[]string{"endpoint"},
		nil,
	)
)

// statusCollector reads client diagnostics on each scrape.
type statusCollector struct {
	src StatusSource
}

// Describe sends the metric descriptors to the channel.
func (c *statusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queueLengthDesc
	ch <- queueProcessingDesc
	ch <- cacheEntriesDesc
	ch <- rateLimitRemainingDesc
	ch <- rateLimitResetDesc
}

// Collect emits the current status as gauges.
func (c *statusCollector) Collect(ch chan<- prometheus.Metric) {
	status := c.src.Status()
	processing := 0.0
	if status.Queue.Processing {
		processing = 1
	}
	ch <- prometheus.MustNewConstMetric(queueLengthDesc, prometheus.GaugeValue, float64(status.Queue.QueueLength))
	ch <- prometheus.MustNewConstMetric(queueProcessingDesc, prometheus.GaugeValue, processing)
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(status.Cache.Active), "active")
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(status.Cache.Expired), "expired")
	for endpoint, state := range status.Queue.RateLimits {
		ch <- prometheus.MustNewConstMetric(rateLimitRemainingDesc, prometheus.GaugeValue, float64(state.Remaining), endpoint)
		ch <- prometheus.MustNewConstMetric(rateLimitResetDesc, prometheus.GaugeValue, float64(state.ResetTime.Unix()), endpoint)
	}
}
