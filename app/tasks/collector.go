package tasks

import (
	"sync"

	"github.com/quantbrief/quantbrief/app/analysis"
)

type sourceRecords struct {
	Source  string
	Records []analysis.Record
}

// cycleCollector gathers per-source analysis results from concurrent tasks
// so the cycle can persist them only after every source has resolved.
type cycleCollector struct {
	mu      sync.Mutex
	batches []sourceRecords
}

func newCycleCollector() *cycleCollector {
	return &cycleCollector{}
}

func (c *cycleCollector) Add(source string, records []analysis.Record) {
	if len(records) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, sourceRecords{Source: source, Records: records})
}

func (c *cycleCollector) Batches() []sourceRecords {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches
}
