package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/core/common"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/llm"
)

// ErrNoTranslator is returned when no natural-language backend is configured.
var ErrNoTranslator = errors.New("no natural-language translator configured")

type Extractor struct {
	LLM     llm.LLMClient
	Prompts config.Prompts
}

func NewExtractor(llmClient llm.LLMClient, prompts config.Prompts) *Extractor {
	if prompts.Query == "" {
		prompts.Query = config.DefaultQueryPrompt
	}
	return &Extractor{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// ExtractQuery turns a free-text question into a structured Query.
func (e *Extractor) ExtractQuery(ctx context.Context, question string) (model.Query, error) {
	if e == nil || e.LLM == nil {
		return model.Query{}, ErrNoTranslator
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return model.Query{}, fmt.Errorf("empty question")
	}

	prompt := fmt.Sprintf(e.Prompts.Query, question)
	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return model.Query{}, fmt.Errorf("failed to translate question: %w", err)
	}

	q, err := common.ParseJSON[model.Query](response)
	if err != nil {
		return model.Query{}, fmt.Errorf("failed to extract query: %w", err)
	}

	q.Mode = model.QueryMode(strings.ToLower(strings.TrimSpace(string(q.Mode))))
	q.Target = strings.TrimSpace(q.Target)
	switch q.Mode {
	case model.QueryRoadmap, model.QuerySuccessors:
	default:
		return model.Query{}, fmt.Errorf("translator returned unknown mode %q", q.Mode)
	}
	if q.Target == "" {
		return model.Query{}, fmt.Errorf("translator returned an empty target")
	}
	return q, nil
}
