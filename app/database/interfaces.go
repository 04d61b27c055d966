package database

import (
	"github.com/quantbrief/quantbrief/app/analysis"
)

// HeadlineFilter narrows reads over stored analysis.
type HeadlineFilter struct {
	Source string // exact source name, empty for all
	Query  string // substring match against title and summary
	Limit  int
}

type HeadlineRepository interface {
	// UpsertHeadline assigns the id and stored-at timestamp and writes the
	// record, overwriting any row with the same id.
	UpsertHeadline(record analysis.Record) (*AnalyzedHeadline, error)

	GetHeadline(id string) (*AnalyzedHeadline, error)
	GetHeadlines(filter HeadlineFilter) ([]AnalyzedHeadline, error)
	GetHeadlineCount() (int, error)
	GetSourceStats() (map[string]int, error)
}
