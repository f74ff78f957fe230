package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/core/model"
)

func TestExtractQuery(t *testing.T) {
	// Providers often wrap the object in prose or markdown fences.
	mockLLM := &MockLLMClient{
		Response: "```json\n{\"mode\": \"Roadmap\", \"target\": \" 데이터 엔지니어 \"}\n```",
	}
	extractor := NewExtractor(mockLLM, config.Prompts{Query: "Q: %s"})

	q, err := extractor.ExtractQuery(context.Background(), "데이터 엔지니어가 되려면 뭘 들어야 해?")

	require.NoError(t, err)
	assert.Equal(t, model.QueryRoadmap, q.Mode)
	assert.Equal(t, "데이터 엔지니어", q.Target)
	assert.Equal(t, "Q: 데이터 엔지니어가 되려면 뭘 들어야 해?", mockLLM.LastPrompt)
}

func TestExtractQuery_DefaultPrompt(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"mode": "successors", "target": "자료구조"}`}
	extractor := NewExtractor(mockLLM, config.Prompts{})

	q, err := extractor.ExtractQuery(context.Background(), "자료구조 다음에 뭐 들어?")

	require.NoError(t, err)
	assert.Equal(t, model.QuerySuccessors, q.Mode)
	assert.Contains(t, mockLLM.LastPrompt, "자료구조 다음에 뭐 들어?")
}

func TestExtractQuery_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewExtractor(nil, config.Prompts{}).ExtractQuery(ctx, "anything")
	assert.ErrorIs(t, err, ErrNoTranslator)

	var nilExtractor *Extractor
	_, err = nilExtractor.ExtractQuery(ctx, "anything")
	assert.ErrorIs(t, err, ErrNoTranslator)

	boom := errors.New("rate limited")
	_, err = NewExtractor(&MockLLMClient{Err: boom}, config.Prompts{}).ExtractQuery(ctx, "q")
	assert.ErrorIs(t, err, boom)

	_, err = NewExtractor(&MockLLMClient{Response: "no json here"}, config.Prompts{}).ExtractQuery(ctx, "q")
	assert.Error(t, err)

	_, err = NewExtractor(&MockLLMClient{Response: `{"mode": "summary", "target": "x"}`}, config.Prompts{}).ExtractQuery(ctx, "q")
	assert.Error(t, err)

	_, err = NewExtractor(&MockLLMClient{Response: `{"mode": "roadmap", "target": ""}`}, config.Prompts{}).ExtractQuery(ctx, "q")
	assert.Error(t, err)

	_, err = NewExtractor(&MockLLMClient{}, config.Prompts{}).ExtractQuery(ctx, "   ")
	assert.Error(t, err)
}
