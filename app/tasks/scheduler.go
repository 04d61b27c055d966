package tasks

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantbrief/quantbrief/app/cfg"
	"github.com/quantbrief/quantbrief/app/database"
	"github.com/quantbrief/quantbrief/app/digest"
	"github.com/quantbrief/quantbrief/app/feed"
)

var _ SchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceCache  *feed.SourceCache
	headlineRepo database.HeadlineRepository
	httpClient   *http.Client
	parser       *feed.Parser
	filterer     *feed.Filterer
	novelty      *feed.NoveltyFilter
	analyzer     HeadlineAnalyzer
	formatter    *digest.Formatter
	sender       digest.Sender
	userAgent    string
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	trigger      chan struct{}
}

func NewScheduler(sourceCache *feed.SourceCache, headlineRepo database.HeadlineRepository,
	httpClient *http.Client, parser *feed.Parser, filterer *feed.Filterer, novelty *feed.NoveltyFilter,
	analyzer HeadlineAnalyzer, formatter *digest.Formatter, sender digest.Sender) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceCache:  sourceCache,
		headlineRepo: headlineRepo,
		httpClient:   httpClient,
		parser:       parser,
		filterer:     filterer,
		novelty:      novelty,
		analyzer:     analyzer,
		formatter:    formatter,
		sender:       sender,
		userAgent:    cfg.UserAgent,
		interval:     time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:  cfg.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		trigger:      make(chan struct{}, 1),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runCycle()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runCycle()
			case <-s.trigger:
				s.runCycle()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// TriggerCycle requests an out-of-band cycle. If one is already pending
// the request is dropped, keeping cycles strictly sequential.
func (s *Scheduler) TriggerCycle() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Scheduler) runCycle() {
	sourceConfigs := s.sourceCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	started := time.Now()
	slog.Debug("Cycle started", "sources", len(sourceConfigs))

	collector := newCycleCollector()

	g := new(errgroup.Group)
	g.SetLimit(s.workerCount)

	for _, sourceConfig := range sourceConfigs {
		g.Go(func() error {
			task := NewAnalyzeSourceTask(sourceConfig.Name, sourceConfig, s.httpClient,
				s.parser, s.filterer, s.novelty, s.analyzer, s.userAgent)
			task.Start()

			taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
			defer cancel()

			records, err := task.Execute(taskCtx)
			if err != nil {
				slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceName(), "error", err)
				return nil
			}

			collector.Add(sourceConfig.Name, records)
			return nil
		})
	}

	g.Wait()

	batches := s.persist(collector.Batches())

	s.notify(batches)

	slog.Info("Cycle completed", "duration", time.Since(started), "sources", len(sourceConfigs), "stored", storedCount(batches))
}

// persist writes every analyzed record to the repository. A failing record
// is logged and skipped so the rest of the batch still lands.
func (s *Scheduler) persist(batches []sourceRecords) []digest.SourceBatch {
	stored := make([]digest.SourceBatch, 0, len(batches))

	for _, batch := range batches {
		headlines := make([]database.AnalyzedHeadline, 0, len(batch.Records))
		for _, record := range batch.Records {
			headline, err := s.headlineRepo.UpsertHeadline(record)
			if err != nil {
				slog.Error("Failed to store analyzed headline", "source", batch.Source, "title", record.Title, "error", err)
				continue
			}
			headlines = append(headlines, *headline)
		}

		if len(headlines) > 0 {
			stored = append(stored, digest.SourceBatch{Source: batch.Source, Records: headlines})
		}
	}

	return stored
}

func (s *Scheduler) notify(batches []digest.SourceBatch) {
	if len(batches) == 0 {
		slog.Debug("No stored headlines this cycle, skipping digest")
		return
	}

	body := s.formatter.Run(batches)
	if err := s.sender.Send(digest.Subject(time.Now()), body); err != nil {
		slog.Error("Failed to send digest", "error", err)
	}
}

func storedCount(batches []digest.SourceBatch) int {
	total := 0
	for _, batch := range batches {
		total += len(batch.Records)
	}
	return total
}
