package llm

import (
	"context"
)

// Client is the LLM boundary. Every analysis stage goes through this
// single call with its own prompts and expected JSON shape.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
