package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/coursegraph/internal/core/model"
)

func testSubjects() []model.Subject {
	return []model.Subject{
		{ID: "JBNU_1", Title: "Learning", Domain: "General"},
		{ID: "JBNU_2", Title: "Deep Learning", Domain: "인공지능", TechStackTags: []string{"PyTorch"}},
		{ID: "COSS_2", Title: "Deep Learning", Domain: "인공지능"},
		{ID: "JBNU_3", Title: "데이터베이스", Domain: "SW기초", TechStackTags: []string{"MySQL"}, CompetencyTags: []string{"Database Design"}},
		{ID: "COSS_3", Title: "클라우드 컴퓨팅", Domain: "시스템/네트워크", TechStackTags: []string{"AWS", "Docker"}, CompetencyTags: []string{"Cloud Infrastructure"}},
		{ID: "JBNU_4", Title: "웹 프로그래밍", Domain: "시스템/네트워크", TechStackTags: []string{"React"}, CompetencyTags: []string{"Web UI"}},
	}
}

func TestKeywords(t *testing.T) {
	m := New(testSubjects(), DefaultTracks)

	assert.Contains(t, m.Keywords("데이터 엔지니어"), "infrastructure")
	assert.Contains(t, m.Keywords("I want to be a data engineer"), "database")
	assert.Contains(t, m.Keywords("AI모델러"), "머신러닝")
	assert.Equal(t, []string{"Kotlin"}, m.Keywords(" Kotlin "))
	assert.Nil(t, m.Keywords("  "))
}

func TestMatch_Track(t *testing.T) {
	m := New(testSubjects(), DefaultTracks)

	assert.Equal(t, []string{"COSS_3", "JBNU_3"}, m.Match("Data Engineer"))
	assert.Equal(t, []string{"JBNU_4"}, m.Match("프론트엔드 개발자"))
}

func TestMatch_RawKeyword(t *testing.T) {
	m := New(testSubjects(), DefaultTracks)

	assert.Equal(t, []string{"COSS_3"}, m.Match("docker"))
	assert.Equal(t, []string{"COSS_3"}, m.Match("cloudinfrastructure"))
	assert.Empty(t, m.Match("Quantum Chemistry"))
}

func TestMatch_FallsBackToTitle(t *testing.T) {
	m := New(testSubjects(), DefaultTracks)

	// No tag contains "learning", but two subjects are titled "Deep Learning".
	assert.Equal(t, []string{"COSS_2", "JBNU_2"}, m.Match("Deep Learning"))
}

func TestLocate_LongestMatch(t *testing.T) {
	m := New(testSubjects(), DefaultTracks)

	s, ok := m.Locate("오늘 Deep Learning 수업 들었어")
	require.True(t, ok)
	assert.Equal(t, "Deep Learning", s.Title)
	// id tie-break
	assert.Equal(t, "COSS_2", s.ID)

	s, ok = m.Locate("machine learning is fun")
	require.True(t, ok)
	assert.Equal(t, "JBNU_1", s.ID)

	_, ok = m.Locate("nothing relevant")
	assert.False(t, ok)
}

func TestLocateAll(t *testing.T) {
	m := New(testSubjects(), DefaultTracks)

	found := m.LocateAll("deeplearning")
	require.Len(t, found, 2)
	assert.Equal(t, "COSS_2", found[0].ID)
	assert.Equal(t, "JBNU_2", found[1].ID)
	assert.Nil(t, m.LocateAll(""))
}
