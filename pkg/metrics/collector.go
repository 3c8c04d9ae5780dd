package metrics

import "time"

// LeaderChecker is satisfied by eventlog.RaftStore. It is defined here,
// rather than imported, so this package does not depend on eventlog.
type LeaderChecker interface {
	IsLeader() bool
}

// Collector periodically refreshes gauges that can't be updated
// inline at the point of the event they describe, namely Raft
// leadership. Counters and histograms (events appended, command
// latency, dispatcher leases, ...) are updated directly by the
// packages that observe them and need no collector.
type Collector struct {
	raft   LeaderChecker
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(raft LeaderChecker) *Collector {
	return &Collector{
		raft:   raft,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics on a 15s tick.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	if c.raft.IsLeader() {
		RaftLeader.Set(1)
	} else {
		RaftLeader.Set(0)
	}
}
