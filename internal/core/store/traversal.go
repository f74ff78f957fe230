package store

import (
	"sort"

	"github.com/agenthands/coursegraph/internal/core/model"
)

type options struct {
	minConfidence float64
}

func (o options) allows(e model.Edge) bool {
	return e.Confidence >= o.minConfidence
}

// Option narrows a traversal.
type Option func(*options)

// WithMinConfidence ignores prerequisite edges below c, e.g. 0.5 drops every
// heuristic-weak edge.
func WithMinConfidence(c float64) Option {
	return func(o *options) {
		o.minConfidence = c
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Ancestors returns every subject that must precede one of ids, in id order.
// The ids themselves are never included.
func (s *Store) Ancestors(ids []string, opts ...Option) []string {
	o := buildOptions(opts)
	seeds := s.nodes(ids)
	seen := make(map[int64]bool, len(seeds))
	for _, n := range seeds {
		seen[n.ID()] = true
	}

	var out []string
	queue := seeds
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range sortedNodes(s.g.To(n.ID())) {
			if seen[p.ID()] || !o.allows(s.attrs[[2]int64{p.ID(), n.ID()}]) {
				continue
			}
			seen[p.ID()] = true
			out = append(out, s.id(p))
			queue = append(queue, p)
		}
	}
	sort.Strings(out)
	return out
}

// Descendants returns every subject reachable forward from ids, in id order,
// excluding ids.
func (s *Store) Descendants(ids []string, opts ...Option) []string {
	reached := s.Reach(ids, opts...)
	out := make([]string, 0, len(reached))
	for _, r := range reached {
		out = append(out, r.Edge.Target)
	}
	sort.Strings(out)
	return out
}

// Reached is one subject found by a forward traversal.
type Reached struct {
	// Edge is the incoming edge that first reached the subject.
	Edge  model.Edge
	Depth int
}

// Reach walks forward from ids level by level. Each subject is reported once,
// at its shallowest depth, with the strongest incoming edge from the previous
// level (highest confidence, then lowest source id). Results are ordered by
// depth, then target id.
func (s *Store) Reach(ids []string, opts ...Option) []Reached {
	o := buildOptions(opts)
	frontier := s.nodes(ids)
	seen := make(map[int64]bool, len(frontier))
	for _, n := range frontier {
		seen[n.ID()] = true
	}

	var out []Reached
	for depth := 1; len(frontier) > 0; depth++ {
		best := make(map[int64]model.Edge)
		for _, n := range frontier {
			for _, m := range sortedNodes(s.g.From(n.ID())) {
				if seen[m.ID()] {
					continue
				}
				e := s.attrs[[2]int64{n.ID(), m.ID()}]
				if !o.allows(e) {
					continue
				}
				if cur, ok := best[m.ID()]; !ok || stronger(e, cur) {
					best[m.ID()] = e
				}
			}
		}

		next := make([]int64, 0, len(best))
		for id := range best {
			next = append(next, id)
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })

		frontier = frontier[:0:0]
		for _, id := range next {
			seen[id] = true
			out = append(out, Reached{Edge: best[id], Depth: depth})
			frontier = append(frontier, s.g.Node(id))
		}
	}
	return out
}

func stronger(a, b model.Edge) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.Source < b.Source
}

// TopologicalOrder orders ids so every prerequisite among them comes first.
// Ready subjects are taken by (semester key, id). If the induced subgraph has
// a cycle the ordered prefix is kept, the remaining subjects follow in
// (semester key, id) order, ok is false and the cycle members are logged.
func (s *Store) TopologicalOrder(ids []string, opts ...Option) (order []string, ok bool) {
	o := buildOptions(opts)
	nodes := s.nodes(ids)
	member := make(map[int64]bool, len(nodes))
	for _, n := range nodes {
		member[n.ID()] = true
	}

	indegree := make(map[int64]int, len(member))
	for id := range member {
		indegree[id] = 0
	}
	for u := range member {
		for _, m := range sortedNodes(s.g.From(u)) {
			if member[m.ID()] && o.allows(s.attrs[[2]int64{u, m.ID()}]) {
				indegree[m.ID()]++
			}
		}
	}

	var ready []int64
	for id, d := range indegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	s.sortBySemester(ready)

	order = make([]string, 0, len(member))
	done := make(map[int64]bool, len(member))
	for len(ready) > 0 {
		u := ready[0]
		ready = ready[1:]
		done[u] = true
		order = append(order, s.subjects[u].ID)

		released := false
		for _, m := range sortedNodes(s.g.From(u)) {
			v := m.ID()
			if !member[v] || !o.allows(s.attrs[[2]int64{u, v}]) {
				continue
			}
			indegree[v]--
			if indegree[v] == 0 {
				ready = append(ready, v)
				released = true
			}
		}
		if released {
			s.sortBySemester(ready)
		}
	}

	if len(order) == len(member) {
		return order, true
	}

	var rest []int64
	var restIDs []string
	for id := range member {
		if !done[id] {
			rest = append(rest, id)
		}
	}
	s.sortBySemester(rest)
	for _, id := range rest {
		restIDs = append(restIDs, s.subjects[id].ID)
	}
	s.log.Warn("prerequisite cycle found, returning partial order",
		"cycles", s.tarjanCycles(restIDs, o),
		"unordered", len(restIDs))
	return append(order, restIDs...), false
}

func (s *Store) sortBySemester(ids []int64) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.subjects[ids[i]], s.subjects[ids[j]]
		if ka, kb := a.SemesterKey(), b.SemesterKey(); ka != kb {
			return ka < kb
		}
		return a.ID < b.ID
	})
}
