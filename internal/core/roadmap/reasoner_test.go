package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/coursegraph/internal/core/matcher"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/core/store"
	"github.com/agenthands/coursegraph/internal/logger"
)

func newTestReasoner() *Reasoner {
	subjects := []model.Subject{
		{ID: "JBNU_1", Title: "프로그래밍 기초", Catalog: model.CatalogUniversity, Semester: "1-1", Domain: "SW기초"},
		{ID: "JBNU_2", Title: "자료구조", Catalog: model.CatalogUniversity, Semester: "1-2", Domain: "SW기초"},
		{ID: "JBNU_3", Title: "선형대수", Catalog: model.CatalogUniversity, Semester: "1-1", Domain: "기초수학"},
		{ID: "JBNU_4", Title: "Deep Learning", Catalog: model.CatalogUniversity, Semester: "3-1", Domain: "인공지능"},
		{ID: "JBNU_5", Title: "Computer Vision", Catalog: model.CatalogUniversity, Semester: "4-1", Domain: "General"},
		{ID: "JBNU_6", Title: "기계학습", Catalog: model.CatalogUniversity, Semester: "2-2", Domain: "General"},
		{ID: "COSS_1", Title: "머신러닝", Catalog: model.CatalogCompetency, Semester: "2-1", Domain: "인공지능"},
		{ID: "COSS_2", Title: "Deep Learning", Catalog: model.CatalogCompetency, Semester: "3-2", Domain: "인공지능"},
	}
	edges := []model.Edge{
		model.NewPrerequisite("JBNU_1", "JBNU_2", model.RuleDeclared),
		model.NewPrerequisite("JBNU_2", "COSS_1", model.RuleCrossKeyword),
		model.NewPrerequisite("JBNU_3", "COSS_1", model.RuleCrossOverride),
		model.NewPrerequisite("COSS_1", "COSS_2", model.RuleSharedConcept),
		model.NewPrerequisite("COSS_1", "JBNU_4", model.RuleCrossKeyword),
		model.NewPrerequisite("JBNU_4", "JBNU_5", model.RuleDeclared),
		model.NewSameAs("JBNU_4", "COSS_2", model.RuleSameTitle),
		model.NewSameAs("JBNU_6", "COSS_1", model.RuleConceptOverlap),
	}
	st := store.New(subjects, edges, logger.Nop())
	return NewReasoner(st, matcher.New(st.Subjects(), matcher.DefaultTracks), 0, logger.Nop())
}

func roadmapIDs(steps []model.SubjectSummary) []string {
	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID)
	}
	return ids
}

func successorIDs(succ []model.Successor) []string {
	ids := make([]string, 0, len(succ))
	for _, s := range succ {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestBackward(t *testing.T) {
	r := newTestReasoner()

	steps := r.Backward("AI 모델러", 0)
	assert.Equal(t, []string{"JBNU_1", "JBNU_3", "JBNU_2", "COSS_1", "JBNU_4", "COSS_2"}, roadmapIDs(steps))
	for i, s := range steps {
		assert.Equal(t, i+1, s.Step)
	}
	assert.Equal(t, model.CatalogCompetency, steps[3].Provenance)
}

func TestBackward_NoMatchIsEmpty(t *testing.T) {
	r := newTestReasoner()

	steps := r.Backward("Quantum Chemistry", 0)
	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}

func TestBackward_CachedCopy(t *testing.T) {
	r := newTestReasoner()

	first := r.Backward("AI 모델러", 0)
	first[0].Title = "mutated"
	second := r.Backward("AI 모델러", 0)
	assert.Equal(t, "프로그래밍 기초", second[0].Title)
	assert.Equal(t, 1, r.roadmaps.Len())
}

func TestForward_Transitive(t *testing.T) {
	r := newTestReasoner()

	succ := r.Forward("오늘 자료구조 수업 들었어", 0)
	assert.Equal(t, []string{"COSS_1", "JBNU_4", "COSS_2", "JBNU_5"}, successorIDs(succ))

	require.Len(t, succ, 4)
	assert.Equal(t, "heuristic cross-catalog", succ[0].Reason)
	assert.Equal(t, 1, succ[0].Depth)
	assert.Equal(t, model.CatalogCompetency, succ[0].Provenance)
	assert.Equal(t, "heuristic-weak shared concept", succ[2].Reason)
	assert.Equal(t, "declared prerequisite", succ[3].Reason)
	assert.Equal(t, 3, succ[3].Depth)
}

func TestForward_MinConfidence(t *testing.T) {
	r := newTestReasoner()

	succ := r.Forward("자료구조", 0.5)
	assert.Equal(t, []string{"COSS_1", "JBNU_4", "JBNU_5"}, successorIDs(succ))
}

func TestForward_FollowsSameAsClass(t *testing.T) {
	r := newTestReasoner()

	// 기계학습 has no outgoing edges of its own; its equivalent 머신러닝 does.
	succ := r.Forward("기계학습", 0)
	assert.Equal(t, []string{"JBNU_4", "COSS_2", "JBNU_5"}, successorIDs(succ))
}

func TestForward_NoMatchIsEmpty(t *testing.T) {
	r := newTestReasoner()

	succ := r.Forward("아무 관련 없는 문장", 0)
	assert.NotNil(t, succ)
	assert.Empty(t, succ)

	// located, but nothing follows
	assert.Empty(t, r.Forward("Computer Vision", 0))
}
