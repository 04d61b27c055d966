package analysis

import (
	"time"
)

// Extraction holds the tickers and companies directly mentioned in a
// headline. Both slices are always non-nil; a failed or empty extraction
// yields empty slices, never nulls.
type Extraction struct {
	TickersMentioned   []string `json:"tickers_mentioned"`
	CompaniesMentioned []string `json:"companies_mentioned"`
}

func EmptyExtraction() Extraction {
	return Extraction{
		TickersMentioned:   []string{},
		CompaniesMentioned: []string{},
	}
}

// Question is one research question generated for a headline. Order is
// preserved through to the stored record but carries no ranking.
type Question struct {
	Text string `json:"question"`
}

// AnswerEntry is one (ticker, reasoning) pair answering a question.
type AnswerEntry struct {
	Symbol    string `json:"symbol"`
	Reasoning string `json:"reasoning"`
}

// QuestionAnswer pairs a question with its answer entries. The slice of
// QuestionAnswers on a record is always the same length and order as the
// record's questions; the pairing is positional, never inferred by text.
type QuestionAnswer struct {
	Question string        `json:"question"`
	Answer   []AnswerEntry `json:"answer"`
}

// Record is the assembled analysis for one headline. The storage id and
// stored-at timestamp are assigned at persistence time, not here.
type Record struct {
	Title            string
	Summary          string
	Source           string
	Link             string
	PublishedAt      time.Time
	CompaniesTickers Extraction
	Questions        []Question
	QuestionAnswers  []QuestionAnswer
}
