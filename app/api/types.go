package api

import (
	"github.com/quantbrief/quantbrief/app/database"
	"github.com/quantbrief/quantbrief/app/feed"
	"github.com/quantbrief/quantbrief/app/tasks"
)

type Handler struct {
	sourceCache  *feed.SourceCache
	headlineRepo database.HeadlineRepository
	scheduler    tasks.SchedulerInterface
}
