package searcher

import "time"

// Metrics describes one search call.
type Metrics struct {
	Depth     int
	Duration  time.Duration
	Nodes     int
	LeafEvals int
	Probes    int
	Hits      int
	Cutoffs   int
}

// HitRate is the fraction of cache probes answered from the table.
func (m Metrics) HitRate() float64 {
	if m.Probes == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.Probes)
}

// Collector gathers per-search counters. The search is single-threaded, so
// implementations need no synchronization.
type Collector interface {
	Start(depth int)
	AddNode()
	AddLeafEval()
	AddProbe(hit bool)
	AddCutoff()
	Complete() Metrics
}

type collector struct {
	depth     int
	startTime time.Time
	nodes     int
	leafEvals int
	probes    int
	hits      int
	cutoffs   int
}

// NewCollector returns a counting collector.
func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(depth int) {
	*c = collector{depth: depth, startTime: time.Now()}
}

func (c *collector) AddNode() {
	c.nodes++
}

func (c *collector) AddLeafEval() {
	c.leafEvals++
}

func (c *collector) AddProbe(hit bool) {
	c.probes++
	if hit {
		c.hits++
	}
}

func (c *collector) AddCutoff() {
	c.cutoffs++
}

func (c *collector) Complete() Metrics {
	return Metrics{
		Depth:     c.depth,
		Duration:  time.Since(c.startTime),
		Nodes:     c.nodes,
		LeafEvals: c.leafEvals,
		Probes:    c.probes,
		Hits:      c.hits,
		Cutoffs:   c.cutoffs,
	}
}

type nopCollector struct{}

// NewNopCollector returns a collector that discards everything.
func NewNopCollector() Collector {
	return nopCollector{}
}

func (nopCollector) Start(depth int)    {}
func (nopCollector) AddNode()           {}
func (nopCollector) AddLeafEval()       {}
func (nopCollector) AddProbe(hit bool)  {}
func (nopCollector) AddCutoff()         {}
func (nopCollector) Complete() Metrics  { return Metrics{} }
