package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/quantbrief/quantbrief/app/llm"
)

const questionSystemPrompt = "You are a financial analyst expert at formulating precise questions about market implications."

const questionPromptTemplate = `You are a financial research expert. Given a news headline and a corresponding description, your job is to generate thought-provoking and relevant research questions consistent with the implications around the headline. These questions will then be handed to financial analysts who will surface answers consisting of the corresponding relevant companies which will be evaluated as potential trade / investment candidates.

Title: %s
Summary: %s

Generate questions about:
1. Which tickers related to certain details contained in the headline might be relevant.
2. Any 3rd or 4th order implications around supply chain effects or downstream effects.
3. Sector-wide implications
4. Trading opportunities or risks

Return the questions as a JSON array.`

// QuestionGenerator produces the ordered research questions for a headline.
// Best-effort: failures degrade to an empty question list.
type QuestionGenerator struct {
	client llm.Client
}

func NewQuestionGenerator(client llm.Client) *QuestionGenerator {
	return &QuestionGenerator{client: client}
}

func (g *QuestionGenerator) Run(ctx context.Context, title, summary string, extraction Extraction) []Question {
	prompt := fmt.Sprintf(questionPromptTemplate, title, summary)

	response, err := g.client.Complete(ctx, questionSystemPrompt, prompt)
	if err != nil {
		slog.Warn("Question generation failed", "title", title, "error", err)
		return []Question{}
	}

	questions, err := decodeQuestions(response)
	if err != nil {
		slog.Warn("Question generation returned malformed JSON", "title", title, "error", err)
		return []Question{}
	}

	return questions
}

// decodeQuestions accepts the payload shapes the model is known to emit:
// a bare JSON array, or an object with a "questions" key, with elements
// that are either strings or {"question": "..."} objects.
func decodeQuestions(response string) ([]Question, error) {
	cleaned := llm.CleanJSONResponse(response)

	var raws []json.RawMessage

	var wrapper struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil && wrapper.Questions != nil {
		raws = wrapper.Questions
	} else if err := json.Unmarshal([]byte(cleaned), &raws); err != nil {
		return nil, fmt.Errorf("unrecognized questions payload: %w", err)
	}

	questions := make([]Question, 0, len(raws))
	for _, raw := range raws {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			if text != "" {
				questions = append(questions, Question{Text: text})
			}
			continue
		}

		var obj Question
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Text != "" {
			questions = append(questions, obj)
		}
	}

	return questions, nil
}
