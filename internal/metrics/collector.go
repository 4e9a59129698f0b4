package metrics

import (
	"time"

	"mosaic-gallery/internal/logging"
)

// StatsProvider supplies catalog totals to the Collector.
type StatsProvider interface {
	CatalogStats() Stats
}

// Stats holds catalog totals.
type Stats struct {
	TotalImages       int
	SensitiveImages   int
	AlwaysShownImages int
	TotalAuthors      int
}

// Collector periodically copies catalog totals into gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the collection loop in the background.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop ends the collection loop.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.CatalogStats()

	CatalogImagesTotal.WithLabelValues("all").Set(float64(stats.TotalImages))
	CatalogImagesTotal.WithLabelValues("sensitive").Set(float64(stats.SensitiveImages))
	CatalogImagesTotal.WithLabelValues("always_shown").Set(float64(stats.AlwaysShownImages))
	CatalogAuthorsTotal.Set(float64(stats.TotalAuthors))

	logging.Debug("Metrics collected: images=%d, sensitive=%d, always_shown=%d, authors=%d",
		stats.TotalImages, stats.SensitiveImages, stats.AlwaysShownImages, stats.TotalAuthors)
}
