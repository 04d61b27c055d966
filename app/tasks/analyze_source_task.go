package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/quantbrief/quantbrief/app/analysis"
	"github.com/quantbrief/quantbrief/app/feed"
)

type AnalyzeSourceTask struct {
	Task
	SourceConfig *feed.Config
	httpClient   *http.Client
	parser       *feed.Parser
	filterer     *feed.Filterer
	novelty      *feed.NoveltyFilter
	analyzer     HeadlineAnalyzer
	userAgent    string
}

func NewAnalyzeSourceTask(sourceName string, sourceConfig *feed.Config, httpClient *http.Client, parser *feed.Parser, filterer *feed.Filterer, novelty *feed.NoveltyFilter, analyzer HeadlineAnalyzer, userAgent string) *AnalyzeSourceTask {
	return &AnalyzeSourceTask{
		Task:         NewTask(TaskTypeAnalyzeSource, sourceName),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		parser:       parser,
		filterer:     filterer,
		novelty:      novelty,
		analyzer:     analyzer,
		userAgent:    userAgent,
	}
}

func (t *AnalyzeSourceTask) Execute(ctx context.Context) ([]analysis.Record, error) {

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil, nil
	}

	data, err := t.fetchSource(ctx, t.SourceConfig.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}

	items, err := t.parser.Run(data, t.SourceConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	kept := t.filterer.Run(items, t.SourceConfig.Filters)
	filteredCount := len(items) - len(kept)

	var fresh []feed.Item
	for _, item := range kept {
		if t.novelty.Admit(item) {
			fresh = append(fresh, item)
		}
	}
	duplicateCount := len(kept) - len(fresh)

	var records []analysis.Record
	if len(fresh) > 0 {
		records = t.analyzer.RunBatch(ctx, fresh)
	}

	slog.Info("Task completed",
		"type", "AnalyzeSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(items),
		"filtered", filteredCount,
		"duplicates", duplicateCount,
		"analyzed", len(records))

	return records, nil
}

func (t *AnalyzeSourceTask) fetchSource(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
