package model

// QueryMode selects which reasoner operation a translated question maps to.
type QueryMode string

const (
	QueryRoadmap    QueryMode = "roadmap"
	QuerySuccessors QueryMode = "successors"
)

// Query is the structured form of a free-text question, as produced by the
// natural-language translator.
type Query struct {
	Mode   QueryMode `json:"mode"`
	Target string    `json:"target"`
}

// Answer carries the result of an answered Query. Exactly one of Roadmap or
// Successors is populated, matching Mode.
type Answer struct {
	Query      Query            `json:"query"`
	Roadmap    []SubjectSummary `json:"roadmap,omitempty"`
	Successors []Successor      `json:"successors,omitempty"`
}
