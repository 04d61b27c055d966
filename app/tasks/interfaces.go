package tasks

import (
	"context"

	"github.com/quantbrief/quantbrief/app/analysis"
	"github.com/quantbrief/quantbrief/app/feed"
)

type HeadlineAnalyzer interface {
	RunBatch(ctx context.Context, items []feed.Item) []analysis.Record
}

type SchedulerInterface interface {
	Start()
	Stop()
	TriggerCycle()
}
