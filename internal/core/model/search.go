package model

import "time"

type NodeView struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Provenance Catalog  `json:"provenance"`
	Semester   string   `json:"semester"`
	Concepts   []string `json:"concepts"`
	Domain     string   `json:"domain"`
	Cluster    string   `json:"cluster,omitempty"` // sameAs class representative
}

type EdgeView struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Kind       EdgeKind `json:"kind"`
	Rule       Rule     `json:"rule"`
	Confidence float64  `json:"confidence"`
}

// GraphView is the full node/edge listing handed to visualisation and export.
type GraphView struct {
	BuildID string     `json:"build_id"`
	BuiltAt time.Time  `json:"built_at"`
	Nodes   []NodeView `json:"nodes"`
	Edges   []EdgeView `json:"edges"`
}

// SubjectSummary is one roadmap step.
type SubjectSummary struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Semester   string  `json:"semester"`
	Provenance Catalog `json:"provenance"`
	Domain     string  `json:"domain"`
	Step       int     `json:"step"`
}

// Successor is one subject reachable forward from the queried subject.
type Successor struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Semester   string  `json:"semester"`
	Reason     string  `json:"reason"`
	Provenance Catalog `json:"provenance"`
	Rule       Rule    `json:"rule"`
	Confidence float64 `json:"confidence"`
	Depth      int     `json:"depth"`
}

// BuildReport summarises one graph build.
type BuildReport struct {
	RecordsRead         map[Catalog]int `json:"records_read"`
	RecordsSkipped      map[Catalog]int `json:"records_skipped"`
	Subjects            int             `json:"subjects"`
	DanglingRefs        int             `json:"dangling_refs"`
	SameAsPairs         int             `json:"same_as_pairs"`
	EdgesByRule         map[Rule]int    `json:"edges_by_rule"`
	SuppressedBySameAs  int             `json:"suppressed_by_same_as"`
	DroppedForCycle     int             `json:"dropped_for_cycle"`
	DuplicateCandidates int             `json:"duplicate_candidates"`
}
