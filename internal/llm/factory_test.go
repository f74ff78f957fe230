package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/coursegraph/internal/config"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "OpenAI", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
	assert.True(t, c.(*OpenAIClient).jsonMode)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.False(t, c.(*OpenAIClient).jsonMode)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "claude", Model: "claude-3-5-haiku-latest", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)

	_, err = NewClient(ctx, config.LLMConfig{Provider: "mystery"})
	assert.Error(t, err)
}
