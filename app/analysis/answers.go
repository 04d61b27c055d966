package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quantbrief/quantbrief/app/llm"
)

const answerSystemPrompt = "You are a financial analyst providing specific market analysis. Only use real stock tickers."

const answerPromptTemplate = `You are an elite quantitative analyst at one of the world's top hedge funds. Your expertise lies in rapidly analyzing market-moving events and tertiary impacts on specific stocks and sectors. You have deep knowledge of market dynamics, company fundamentals, and how various economic factors interplay to affect companies fundamentally.

For each question, your task is to identify the specific U.S. stocks (by their ticker) that sufficiently answer the question supplied in the context of investment and trading opportunities and to provide precise reasoning for why the ticker is relevant. Your analysis will be used for immediate trading decisions, so accuracy and clarity are crucial.

%s

Rules for Analysis:
1. Focus on both obvious first-order effects and less obvious second/third-order impacts
2. Consider competitive dynamics and industry structure

Give me the exact tickers and reasoning in JSON.

RESPOND WITH RAW JSON ONLY. NO MARKDOWN. NO EXPLANATION. NO FORMATTING.

Required format:
{
    "tickers": [
        {
            "symbol": "TICKER",
            "reasoning": "Brief explanation of why"
        }
    ]
}`

// AnswerWorker answers one research question with (ticker, reasoning)
// pairs. Each invocation is independent; a failure yields an empty answer
// for that question only and never affects sibling questions.
type AnswerWorker struct {
	client llm.Client
}

func NewAnswerWorker(client llm.Client) *AnswerWorker {
	return &AnswerWorker{client: client}
}

func (w *AnswerWorker) Run(ctx context.Context, question Question, title, summary string, extraction Extraction) []AnswerEntry {
	prompt := fmt.Sprintf(answerPromptTemplate, strings.TrimSpace(question.Text))

	response, err := w.client.Complete(ctx, answerSystemPrompt, prompt)
	if err != nil {
		slog.Warn("Answer worker failed", "question", question.Text, "title", title, "error", err)
		return []AnswerEntry{}
	}

	var parsed struct {
		Tickers []AnswerEntry `json:"tickers"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(response)), &parsed); err != nil {
		slog.Warn("Answer worker returned malformed JSON", "question", question.Text, "title", title, "error", err)
		return []AnswerEntry{}
	}

	if parsed.Tickers == nil {
		return []AnswerEntry{}
	}
	return parsed.Tickers
}
