package analysis

import (
	"context"
	"strings"
	"sync"
)

// stubClient routes each stage's prompt to a scripted response. Stages are
// told apart by markers in their prompt text. Safe for concurrent use:
// answer calls fan out across goroutines.
type stubClient struct {
	extractResponse  string
	extractErr       error
	questionResponse string
	questionErr      error
	answerResponse   func(prompt string) (string, error)

	mu    sync.Mutex
	calls int
}

func (s *stubClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	switch {
	case strings.Contains(userPrompt, "tickers_mentioned"):
		return s.extractResponse, s.extractErr
	case strings.Contains(userPrompt, "Return the questions as a JSON array"):
		return s.questionResponse, s.questionErr
	default:
		if s.answerResponse != nil {
			return s.answerResponse(userPrompt)
		}
		return `{"tickers": []}`, nil
	}
}

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
