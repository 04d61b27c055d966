package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/quantbrief/quantbrief/app/llm"
)

const extractorSystemPrompt = "You are a financial analyst expert at identifying company names and stock tickers in text. Return only valid tickers."

const extractorPromptTemplate = `Analyze the following news article title and summary to identify stock tickers and company names mentioned:

Title: %s
Summary: %s

Return your response as a JSON with two keys:
1. "tickers_mentioned": list of stock tickers mentioned (use actual tickers, not made up ones)
2. "companies_mentioned": list of company names mentioned

Only include directly mentioned companies and tickers, do not infer or speculate.`

// Extractor identifies the tickers and companies a headline mentions
// directly. Best-effort: any LLM or parse failure degrades to an empty
// extraction and never aborts the pipeline.
type Extractor struct {
	client llm.Client
}

func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

func (e *Extractor) Run(ctx context.Context, title, summary string) Extraction {
	prompt := fmt.Sprintf(extractorPromptTemplate, title, summary)

	response, err := e.client.Complete(ctx, extractorSystemPrompt, prompt)
	if err != nil {
		slog.Warn("Entity extraction failed", "title", title, "error", err)
		return EmptyExtraction()
	}

	var parsed Extraction
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(response)), &parsed); err != nil {
		slog.Warn("Entity extraction returned malformed JSON", "title", title, "error", err)
		return EmptyExtraction()
	}

	if parsed.TickersMentioned == nil {
		parsed.TickersMentioned = []string{}
	}
	if parsed.CompaniesMentioned == nil {
		parsed.CompaniesMentioned = []string{}
	}

	return parsed
}
