package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_StripsMarkdown(t *testing.T) {
	type query struct {
		Mode   string `json:"mode"`
		Target string `json:"target"`
	}
	resp := "```json\n{\"mode\": \"roadmap\", \"target\": \"데이터 엔지니어\"}\n```"

	q, err := ParseJSON[query](resp)
	require.NoError(t, err)
	assert.Equal(t, "roadmap", q.Mode)
	assert.Equal(t, "데이터 엔지니어", q.Target)
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[map[string]any]("sorry, I cannot help")
	assert.Error(t, err)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "deeplearning", NormalizeTitle(" Deep  Learning "))
	assert.Equal(t, "자료구조", NormalizeTitle("자료 구조"))
}

func TestCanonicalConcept(t *testing.T) {
	assert.Equal(t, "linear algebra", CanonicalConcept("Linear Algebra (선형대수)"))
	assert.Equal(t, "sql", CanonicalConcept("  SQL "))
	assert.Equal(t, "", CanonicalConcept("(only gloss)"))
}

func TestCanonicalConcepts_Dedupes(t *testing.T) {
	got := CanonicalConcepts([]string{"Graph (그래프)", "graph", "", "Tree"})
	assert.Equal(t, []string{"graph", "tree"}, got)
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("머신러닝기초", "딥러닝", "머신러닝"))
	assert.False(t, ContainsAny("운영체제", "웹", ""))
}
