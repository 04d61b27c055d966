package database

import (
	"time"

	"github.com/quantbrief/quantbrief/app/analysis"
)

// AnalyzedHeadline is the persisted unit: one headline with its full
// staged analysis. Records are write-once; re-submitting the same
// (title, summary) pair overwrites the same row via the id key.
type AnalyzedHeadline struct {
	ID               string                    `json:"id"`
	Title            string                    `json:"title"`
	Summary          string                    `json:"summary"`
	Source           string                    `json:"source"`
	Link             string                    `json:"link,omitempty"`
	PublishedAt      *time.Time                `json:"published_at,omitempty"`
	CompaniesTickers analysis.Extraction       `json:"companies_tickers"`
	Questions        []analysis.Question       `json:"questions"`
	QuestionAnswers  []analysis.QuestionAnswer `json:"question_and_answers"`
	StoredAt         time.Time                 `json:"stored_at"`
}

// RecordID derives the idempotency key for a headline. It is a pure
// function of (title, summary): identical inputs always collapse to the
// same id.
func RecordID(title, summary string) string {
	return title + "_" + summary
}
