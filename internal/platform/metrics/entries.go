package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	entriesTotalDesc = prometheus.NewDesc(namespace+"_entries_total", "Number of journal entries currently stored", nil, nil)
	storeUpDesc      = prometheus.NewDesc(namespace+"_store_up", "Whether the last entry count succeeded (1) or failed (0)", nil, nil)
)

// Counter reports the number of stored entries.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type entriesCollector struct {
	counter Counter
	timeout time.Duration
}

// NewEntriesCollector returns a collector that counts entries on every scrape.
func NewEntriesCollector(counter Counter) prometheus.Collector {
	return &entriesCollector{counter: counter, timeout: 5 * time.Second}
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- entriesTotalDesc
	ch <- storeUpDesc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.counter.Count(ctx)
	if err != nil {
		ch <- prometheus.MustNewConstMetric(storeUpDesc, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(storeUpDesc, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(entriesTotalDesc, prometheus.GaugeValue, float64(n))
}
