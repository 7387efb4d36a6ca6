package monitor

import (
	"sync"
	"time"
)

// Collector records operation timings and counters for one session.
// The zero value is not usable; call New.
type Collector struct {
	timers   map[OperationType]*Timer
	errors   map[OperationType]*Counter
	counters map[string]*Counter
	mutex    sync.RWMutex

	started time.Time
	now     func() time.Time
}

// New creates a collector with a timer for every known operation
func New() *Collector {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Collector {
	c := &Collector{
		timers:   make(map[OperationType]*Timer, len(Operations)),
		errors:   make(map[OperationType]*Counter, len(Operations)),
		counters: make(map[string]*Counter),
		started:  now(),
		now:      now,
	}
	for _, op := range Operations {
		c.timers[op] = NewTimer(string(op))
		c.errors[op] = NewCounter(string(op) + ".errors")
	}
	return c
}

// TrackOperationWithError runs fn and records its duration under operation.
// fn's error is returned unchanged.
func (c *Collector) TrackOperationWithError(operation OperationType, fn func() error) error {
	start := c.now()
	err := fn()
	duration := c.now().Sub(start)

	timer, errCount := c.operation(operation)
	timer.Record(duration)
	if err != nil {
		errCount.Inc()
	}
	return err
}

// Inc increments the named counter
func (c *Collector) Inc(name string) {
	c.counter(name).Inc()
}

// Snapshot returns the current metrics
func (c *Collector) Snapshot() Snapshot {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := c.now()
	snapshot := Snapshot{
		Timestamp:  now,
		Uptime:     now.Sub(c.started),
		Operations: make([]OperationMetrics, 0, len(c.timers)),
		Counters:   make(map[string]int64, len(c.counters)),
	}

	for _, op := range Operations {
		snapshot.Operations = append(snapshot.Operations, operationMetrics(op, c.timers[op], c.errors[op]))
	}
	for op, timer := range c.timers {
		if !isKnown(op) {
			snapshot.Operations = append(snapshot.Operations, operationMetrics(op, timer, c.errors[op]))
		}
	}
	for name, counter := range c.counters {
		snapshot.Counters[name] = counter.Get()
	}

	return snapshot
}

func (c *Collector) operation(op OperationType) (*Timer, *Counter) {
	c.mutex.RLock()
	timer, exists := c.timers[op]
	errCount := c.errors[op]
	c.mutex.RUnlock()
	if exists {
		return timer, errCount
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, exists = c.timers[op]; !exists {
		c.timers[op] = NewTimer(string(op))
		c.errors[op] = NewCounter(string(op) + ".errors")
	}
	return c.timers[op], c.errors[op]
}

func (c *Collector) counter(name string) *Counter {
	c.mutex.RLock()
	counter, exists := c.counters[name]
	c.mutex.RUnlock()
	if exists {
		return counter
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if counter, exists = c.counters[name]; !exists {
		counter = NewCounter(name)
		c.counters[name] = counter
	}
	return counter
}

func operationMetrics(op OperationType, timer *Timer, errCount *Counter) OperationMetrics {
	count := timer.Count()
	errorCount := errCount.Get()
	return OperationMetrics{
		Operation:    op,
		Count:        count,
		TotalTime:    timer.TotalTime(),
		MinTime:      timer.MinTime(),
		MaxTime:      timer.MaxTime(),
		AvgTime:      timer.AvgTime(),
		ErrorCount:   errorCount,
		SuccessCount: count - errorCount,
	}
}

func isKnown(op OperationType) bool {
	for _, known := range Operations {
		if known == op {
			return true
		}
	}
	return false
}
