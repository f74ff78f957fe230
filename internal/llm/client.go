package llm

import (
	"context"
)

// LLMClient is the natural-language service used to translate questions.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// systemPrompt keeps every provider on strict JSON output.
const systemPrompt = "You convert curriculum questions into JSON. Reply with a single JSON object and nothing else."
