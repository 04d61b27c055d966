package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantbrief/quantbrief/app/analysis"
	"github.com/quantbrief/quantbrief/app/database"
	"github.com/quantbrief/quantbrief/app/feed"
)

// passthroughAnalyzer turns every item into a record without calling an
// LLM, which is all the orchestration tests need.
type passthroughAnalyzer struct {
	mu      sync.Mutex
	batches [][]feed.Item
}

func (a *passthroughAnalyzer) RunBatch(ctx context.Context, items []feed.Item) []analysis.Record {
	a.mu.Lock()
	a.batches = append(a.batches, items)
	a.mu.Unlock()

	records := make([]analysis.Record, 0, len(items))
	for _, item := range items {
		records = append(records, analysis.Record{
			Title:            item.Title,
			Summary:          item.Summary,
			Source:           item.Source,
			Link:             item.Link,
			PublishedAt:      item.PublishedAt,
			CompaniesTickers: analysis.EmptyExtraction(),
			Questions:        []analysis.Question{},
			QuestionAnswers:  []analysis.QuestionAnswer{},
		})
	}
	return records
}

func (a *passthroughAnalyzer) batchCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.batches)
}

type memoryHeadlineRepository struct {
	mu        sync.Mutex
	headlines map[string]database.AnalyzedHeadline
	failAll   bool
}

func newMemoryHeadlineRepository() *memoryHeadlineRepository {
	return &memoryHeadlineRepository{headlines: make(map[string]database.AnalyzedHeadline)}
}

func (r *memoryHeadlineRepository) UpsertHeadline(record analysis.Record) (*database.AnalyzedHeadline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAll {
		return nil, fmt.Errorf("storage unavailable")
	}

	var publishedAt *time.Time
	if !record.PublishedAt.IsZero() {
		t := record.PublishedAt
		publishedAt = &t
	}

	headline := database.AnalyzedHeadline{
		ID:               database.RecordID(record.Title, record.Summary),
		Title:            record.Title,
		Summary:          record.Summary,
		Source:           record.Source,
		Link:             record.Link,
		PublishedAt:      publishedAt,
		CompaniesTickers: record.CompaniesTickers,
		Questions:        record.Questions,
		QuestionAnswers:  record.QuestionAnswers,
		StoredAt:         time.Now().UTC(),
	}
	r.headlines[headline.ID] = headline
	return &headline, nil
}

func (r *memoryHeadlineRepository) GetHeadline(id string) (*database.AnalyzedHeadline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	headline, ok := r.headlines[id]
	if !ok {
		return nil, nil
	}
	return &headline, nil
}

func (r *memoryHeadlineRepository) GetHeadlines(filter database.HeadlineFilter) ([]database.AnalyzedHeadline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]database.AnalyzedHeadline, 0, len(r.headlines))
	for _, headline := range r.headlines {
		result = append(result, headline)
	}
	return result, nil
}

func (r *memoryHeadlineRepository) GetHeadlineCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.headlines), nil
}

func (r *memoryHeadlineRepository) GetSourceStats() (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := make(map[string]int)
	for _, headline := range r.headlines {
		stats[headline.Source]++
	}
	return stats, nil
}

type captureSender struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
}

func (s *captureSender) Send(subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, body)
	return nil
}

func (s *captureSender) sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subjects)
}

func (s *captureSender) lastBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bodies) == 0 {
		return ""
	}
	return s.bodies[len(s.bodies)-1]
}
