package cache

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats is a point-in-time copy of a cache's counters.
type Stats struct {
	Name             string `json:"name"`
	Hits             int64  `json:"hits"`
	Misses           int64  `json:"misses"`
	Loads            int64  `json:"loads"`
	LoadFailures     int64  `json:"loadFailures"`
	Joins            int64  `json:"joins"`
	Evictions        int64  `json:"evictions"`
	EvictionFailures int64  `json:"evictionFailures"`
	StoreErrors      int64  `json:"storeErrors"`
}

// HitRatio is hits over lookups, or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type counters struct {
	hits             atomic.Int64
	misses           atomic.Int64
	loads            atomic.Int64
	loadFailures     atomic.Int64
	joins            atomic.Int64
	evictions        atomic.Int64
	evictionFailures atomic.Int64
	storeErrors      atomic.Int64
}

func (c *counters) snapshot(name string) Stats {
	return Stats{
		Name:             name,
		Hits:             c.hits.Load(),
		Misses:           c.misses.Load(),
		Loads:            c.loads.Load(),
		LoadFailures:     c.loadFailures.Load(),
		Joins:            c.joins.Load(),
		Evictions:        c.evictions.Load(),
		EvictionFailures: c.evictionFailures.Load(),
		StoreErrors:      c.storeErrors.Load(),
	}
}

// StatsSource is anything reporting cache Stats; every *Cache is one.
type StatsSource interface {
	Stats() Stats
}

// Collector exports the counters of a set of caches as prometheus metrics
// labelled by cache name. Registering it is up to the caller.
type Collector struct {
	sources []StatsSource
	descs   map[string]*prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector over sources, with metric names prefixed by
// namespace.
func NewCollector(namespace string, sources ...StatsSource) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", name),
			help,
			[]string{"cache"},
			nil,
		)
	}
	return &Collector{
		sources: sources,
		descs: map[string]*prometheus.Desc{
			"hits":              desc("hits_total", "Lookups answered from the cache."),
			"misses":            desc("misses_total", "Lookups not answered from the cache."),
			"loads":             desc("loads_total", "Loader invocations."),
			"load_failures":     desc("load_failures_total", "Loader invocations that returned an error."),
			"joins":             desc("joins_total", "Callers that waited on another caller's load."),
			"evictions":         desc("evictions_total", "Invalidations requested."),
			"eviction_failures": desc("eviction_failures_total", "Invalidations the store failed to apply."),
			"store_errors":      desc("store_errors_total", "Store reads or writes that failed."),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, src := range c.sources {
		s := src.Stats()
		values := map[string]int64{
			"hits":              s.Hits,
			"misses":            s.Misses,
			"loads":             s.Loads,
			"load_failures":     s.LoadFailures,
			"joins":             s.Joins,
			"evictions":         s.Evictions,
			"eviction_failures": s.EvictionFailures,
			"store_errors":      s.StoreErrors,
		}
		for key, v := range values {
			ch <- prometheus.MustNewConstMetric(c.descs[key], prometheus.CounterValue, float64(v), s.Name)
		}
	}
}
