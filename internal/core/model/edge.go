package model

type EdgeKind string

const (
	EdgePrerequisite EdgeKind = "prerequisite"
	EdgeSameAs       EdgeKind = "sameAs"
)

// Rule records which inference rule produced an edge.
type Rule string

const (
	RuleDeclared      Rule = "declared"
	RuleCrossOverride Rule = "cross-override"
	RuleCrossKeyword  Rule = "cross-keyword"
	// RuleSharedConcept is the permissive "any shared concept" fallback.
	RuleSharedConcept Rule = "heuristic-weak"
	RuleIntraIntro    Rule = "intra-intro"
	RuleIntraSequence Rule = "intra-sequence"
	RuleIntraKeyword  Rule = "intra-keyword"

	RuleSameTitle      Rule = "same-title"
	RuleConceptOverlap Rule = "concept-overlap"
)

// Confidence is the fixed confidence attached to edges of this rule.
func (r Rule) Confidence() float64 {
	switch r {
	case RuleDeclared:
		return 1.0
	case RuleCrossOverride, RuleIntraSequence:
		return 0.9
	case RuleIntraIntro:
		return 0.8
	case RuleIntraKeyword:
		return 0.75
	case RuleCrossKeyword:
		return 0.7
	case RuleSharedConcept:
		return 0.3
	case RuleSameTitle:
		return 1.0
	case RuleConceptOverlap:
		return 0.8
	}
	return 0
}

// Weak reports whether the rule is the low-precision fallback.
func (r Rule) Weak() bool {
	return r == RuleSharedConcept
}

// Reason is the human-readable tag shown next to query results.
func (r Rule) Reason() string {
	switch r {
	case RuleDeclared:
		return "declared prerequisite"
	case RuleCrossOverride, RuleCrossKeyword:
		return "heuristic cross-catalog"
	case RuleSharedConcept:
		return "heuristic-weak shared concept"
	case RuleIntraIntro, RuleIntraSequence, RuleIntraKeyword:
		return "heuristic intra-catalog"
	case RuleSameTitle, RuleConceptOverlap:
		return "equivalent subject"
	}
	return string(r)
}

// Edge is a typed relation between two subjects. For prerequisite edges Source
// must be completed before Target. SameAs edges are symmetric.
type Edge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Kind       EdgeKind `json:"kind"`
	Rule       Rule     `json:"rule"`
	Confidence float64  `json:"confidence"`
}

func NewPrerequisite(source, target string, rule Rule) Edge {
	return Edge{Source: source, Target: target, Kind: EdgePrerequisite, Rule: rule, Confidence: rule.Confidence()}
}

func NewSameAs(a, b string, rule Rule) Edge {
	return Edge{Source: a, Target: b, Kind: EdgeSameAs, Rule: rule, Confidence: rule.Confidence()}
}
