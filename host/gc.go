package host

import (
	"log/slog"
	"runtime"
	"sync"
)

// collector forces a Go garbage collection every interval operations.
type collector struct {
	mu       sync.Mutex
	interval int
	enabled  bool
	count    int
	collect  func()
	logger   *slog.Logger
}

func newCollector(interval *int, logger *slog.Logger) *collector {
	c := &collector{collect: runtime.GC, logger: logger}
	if interval != nil {
		c.interval = *interval
		c.enabled = true
	}
	return c
}

// tick counts one operation and collects once the count exceeds the interval.
func (c *collector) tick() {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > c.interval {
		c.logger.Debug("collecting garbage", "operations", c.count)
		c.collect()
		c.count = 0
	}
	c.count++
}
