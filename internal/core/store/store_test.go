package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/logger"
)

func subject(id, semester string) model.Subject {
	return model.Subject{ID: id, Title: id, Catalog: model.CatalogUniversity, Semester: semester}
}

func prereq(a, b string, rule model.Rule) model.Edge {
	return model.NewPrerequisite(a, b, rule)
}

// chain: A -> B -> D, C -> D, D -> E (weak)
func chainStore() *Store {
	subjects := []model.Subject{
		subject("A", "1-1"),
		subject("B", "1-2"),
		subject("C", "2-1"),
		subject("D", "2-2"),
		subject("E", "3-1"),
	}
	edges := []model.Edge{
		prereq("A", "B", model.RuleDeclared),
		prereq("B", "D", model.RuleIntraIntro),
		prereq("C", "D", model.RuleCrossKeyword),
		prereq("D", "E", model.RuleSharedConcept),
		prereq("A", "A", model.RuleDeclared),  // self loop ignored
		prereq("A", "ZZ", model.RuleDeclared), // unknown target ignored
	}
	return New(subjects, edges, logger.Nop())
}

func TestAncestors(t *testing.T) {
	s := chainStore()

	assert.Equal(t, []string{"A", "B", "C", "D"}, s.Ancestors([]string{"E"}))
	assert.Equal(t, []string{"A", "B", "C"}, s.Ancestors([]string{"D"}))
	assert.Empty(t, s.Ancestors([]string{"A"}))
	assert.Empty(t, s.Ancestors([]string{"missing"}))

	// weak edge D -> E filtered
	assert.Empty(t, s.Ancestors([]string{"E"}, WithMinConfidence(0.5)))
}

func TestAncestors_Correctness(t *testing.T) {
	s := chainStore()
	for _, e := range s.Edges() {
		if e.Kind != model.EdgePrerequisite {
			continue
		}
		assert.Contains(t, s.Ancestors([]string{e.Target}), e.Source)
	}
	for _, subj := range s.Subjects() {
		assert.NotContains(t, s.Ancestors([]string{subj.ID}), subj.ID)
	}
}

func TestDescendantsAndReach(t *testing.T) {
	s := chainStore()

	assert.Equal(t, []string{"B", "D", "E"}, s.Descendants([]string{"A"}))
	assert.Equal(t, []string{"B", "D"}, s.Descendants([]string{"A"}, WithMinConfidence(0.5)))

	reached := s.Reach([]string{"A", "C"})
	require.Len(t, reached, 3)
	assert.Equal(t, "B", reached[0].Edge.Target)
	assert.Equal(t, 1, reached[0].Depth)
	// D is reached at depth 1 from C
	assert.Equal(t, "D", reached[1].Edge.Target)
	assert.Equal(t, "C", reached[1].Edge.Source)
	assert.Equal(t, 1, reached[1].Depth)
	assert.Equal(t, "E", reached[2].Edge.Target)
	assert.Equal(t, 2, reached[2].Depth)
}

func TestReach_PrefersStrongestEdge(t *testing.T) {
	subjects := []model.Subject{subject("A", ""), subject("B", ""), subject("C", "")}
	edges := []model.Edge{
		prereq("A", "C", model.RuleSharedConcept),
		prereq("B", "C", model.RuleCrossOverride),
	}
	s := New(subjects, edges, logger.Nop())

	reached := s.Reach([]string{"A", "B"})
	require.Len(t, reached, 1)
	assert.Equal(t, "B", reached[0].Edge.Source)
	assert.Equal(t, model.RuleCrossOverride, reached[0].Edge.Rule)
}

func TestTopologicalOrder(t *testing.T) {
	s := chainStore()
	order, ok := s.TopologicalOrder([]string{"E", "D", "C", "B", "A"})
	assert.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, order)
}

func TestTopologicalOrder_SemesterTieBreak(t *testing.T) {
	subjects := []model.Subject{
		subject("A_late", "2-1"),
		subject("Z_early", "1-1"),
		subject("M_none", model.SemesterUnspecified),
		subject("Goal", "3-1"),
	}
	edges := []model.Edge{
		prereq("A_late", "Goal", model.RuleDeclared),
		prereq("Z_early", "Goal", model.RuleDeclared),
		prereq("M_none", "Goal", model.RuleDeclared),
	}
	s := New(subjects, edges, logger.Nop())

	order, ok := s.TopologicalOrder([]string{"Goal", "A_late", "M_none", "Z_early"})
	assert.True(t, ok)
	assert.Equal(t, []string{"Z_early", "A_late", "M_none", "Goal"}, order)
}

func TestTopologicalOrder_CycleFallsBack(t *testing.T) {
	subjects := []model.Subject{subject("A", "1-1"), subject("B", "1-2"), subject("C", "2-1"), subject("D", "2-2")}
	edges := []model.Edge{
		prereq("A", "B", model.RuleDeclared),
		prereq("B", "C", model.RuleDeclared),
		prereq("C", "B", model.RuleDeclared),
		prereq("C", "D", model.RuleDeclared),
	}
	s := New(subjects, edges, logger.Nop())

	order, ok := s.TopologicalOrder([]string{"A", "B", "C", "D"})
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B", "C", "D"}, order)
	assert.Equal(t, [][]string{{"B", "C"}}, s.tarjanCycles([]string{"B", "C", "D"}, options{}))
}

func TestSameAsAndClusters(t *testing.T) {
	subjects := []model.Subject{subject("JBNU_1", ""), subject("COSS_1", ""), subject("COSS_2", "")}
	edges := []model.Edge{
		model.NewSameAs("JBNU_1", "COSS_1", model.RuleSameTitle),
		prereq("JBNU_1", "COSS_2", model.RuleCrossKeyword),
	}
	s := New(subjects, edges, logger.Nop())

	assert.True(t, s.SameAs("JBNU_1", "COSS_1"))
	assert.True(t, s.SameAs("COSS_1", "JBNU_1"))
	assert.False(t, s.SameAs("JBNU_1", "COSS_2"))

	assert.Equal(t, []string{"COSS_1"}, s.Equivalents("JBNU_1"))
	assert.Equal(t, "COSS_1", s.Cluster("JBNU_1"))
	assert.Equal(t, "", s.Cluster("COSS_2"))
	assert.Nil(t, s.Equivalents("COSS_2"))

	var sameAs int
	for _, e := range s.Edges() {
		if e.Kind == model.EdgeSameAs {
			sameAs++
			assert.Equal(t, model.RuleSameTitle, e.Rule)
		}
	}
	assert.Equal(t, 2, sameAs)
}
