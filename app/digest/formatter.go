package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantbrief/quantbrief/app/database"
)

// SourceBatch is one source's analyzed records from a single polling cycle.
type SourceBatch struct {
	Source  string
	Records []database.AnalyzedHeadline
}

type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

func Subject(now time.Time) string {
	return fmt.Sprintf("Processed headlines batch: %s", now.Format("2006-01-02 15:04:05"))
}

// Run renders a cycle's batches into the plaintext digest body, one
// [SOURCE = name] section per batch.
func (f *Formatter) Run(batches []SourceBatch) string {
	sections := make([]string, 0, len(batches))
	for _, batch := range batches {
		if len(batch.Records) == 0 {
			continue
		}
		sections = append(sections, fmt.Sprintf("[SOURCE = %s] %s", batch.Source, f.FormatRecords(batch.Records)))
	}
	return strings.Join(sections, "\n")
}

// FormatRecords renders analyzed records into readable digest blocks.
func (f *Formatter) FormatRecords(records []database.AnalyzedHeadline) string {
	var lines []string

	for _, record := range records {
		lines = append(lines, fmt.Sprintf("📰 HEADLINE: %s\n", record.Title))
		lines = append(lines, fmt.Sprintf("📝 SUMMARY: %s\n", record.Summary))

		tickers := record.CompaniesTickers.TickersMentioned
		companies := record.CompaniesTickers.CompaniesMentioned
		if len(tickers) > 0 {
			lines = append(lines, fmt.Sprintf("🎯 TICKERS MENTIONED: %s", strings.Join(tickers, ", ")))
		}
		if len(companies) > 0 {
			lines = append(lines, fmt.Sprintf("🏢 COMPANIES MENTIONED: %s", strings.Join(companies, ", ")))
		}
		if len(tickers) > 0 || len(companies) > 0 {
			lines = append(lines, "")
		}

		if len(record.QuestionAnswers) > 0 {
			lines = append(lines, "❓ ANALYSIS QUESTIONS & ANSWERS:")
			for _, qa := range record.QuestionAnswers {
				lines = append(lines, fmt.Sprintf("\nQ: %s", qa.Question))
				lines = append(lines, "A: ")
				for _, entry := range qa.Answer {
					lines = append(lines, fmt.Sprintf("   • %s: %s", entry.Symbol, entry.Reasoning))
				}
			}
			lines = append(lines, "")
		}

		lines = append(lines, strings.Repeat("=", 80)+"\n")
	}

	return strings.Join(lines, "\n")
}
