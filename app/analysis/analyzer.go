package analysis

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/quantbrief/quantbrief/app/feed"
	"github.com/quantbrief/quantbrief/app/llm"
)

const defaultAnswerConcurrency = 4

// Analyzer runs one headline through the staged enrichment chain:
// entity extraction, question generation, then one answer call per
// question. Stage outputs flow forward explicitly; answers are joined to
// questions by index so the positional pairing holds even with the
// per-question fan-out.
type Analyzer struct {
	extractor         *Extractor
	questionGenerator *QuestionGenerator
	answerWorker      *AnswerWorker
	answerConcurrency int
}

func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{
		extractor:         NewExtractor(client),
		questionGenerator: NewQuestionGenerator(client),
		answerWorker:      NewAnswerWorker(client),
		answerConcurrency: defaultAnswerConcurrency,
	}
}

// Run analyzes a single headline. It never fails: every stage degrades to
// its zero value on LLM trouble, and a headline with no discoverable
// trading angle is a valid outcome, not an error.
func (a *Analyzer) Run(ctx context.Context, item feed.Item) Record {
	extraction := a.extractor.Run(ctx, item.Title, item.Summary)

	questions := a.questionGenerator.Run(ctx, item.Title, item.Summary, extraction)

	questionAnswers := make([]QuestionAnswer, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.answerConcurrency)
	for i, question := range questions {
		g.Go(func() error {
			answer := a.answerWorker.Run(gctx, question, item.Title, item.Summary, extraction)
			questionAnswers[i] = QuestionAnswer{Question: question.Text, Answer: answer}
			return nil
		})
	}
	g.Wait()

	return Record{
		Title:            item.Title,
		Summary:          item.Summary,
		Source:           item.Source,
		Link:             item.Link,
		PublishedAt:      item.PublishedAt,
		CompaniesTickers: extraction,
		Questions:        questions,
		QuestionAnswers:  questionAnswers,
	}
}

// RunBatch analyzes a batch of headlines, isolating per-item failures: a
// panic while processing one item drops that item (logged with its title)
// and the rest of the batch continues.
func (a *Analyzer) RunBatch(ctx context.Context, items []feed.Item) []Record {
	records := make([]Record, 0, len(items))

	for _, item := range items {
		record, ok := a.runIsolated(ctx, item)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return records
}

func (a *Analyzer) runIsolated(ctx context.Context, item feed.Item) (record Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Headline analysis aborted", "title", item.Title, "panic", r)
			ok = false
		}
	}()

	return a.Run(ctx, item), true
}
