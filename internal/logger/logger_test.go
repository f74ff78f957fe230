package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"uri", "bolt://db:7687", "password", "hunter2", "LLM_API_KEY", "sk-1"})

	assert.Equal(t, []interface{}{"uri", "bolt://db:7687", "password", "[REDACTED]", "LLM_API_KEY", "[REDACTED]"}, out)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"file", "a.json", "dangling"})
	assert.Equal(t, []interface{}{"file", "a.json", "dangling"}, out)
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.With("component", "test").Info("hello", "k", 1)
	})
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "nop", ""} {
		log, err := New(mode)
		assert.NoError(t, err, mode)
		assert.NotNil(t, log)
	}
}
