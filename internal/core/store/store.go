package store

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/agenthands/coursegraph/internal/core/cluster"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/logger"
)

// Store is an immutable in-memory subject graph. Prerequisite structure lives
// in a gonum directed graph keyed by the subject's position in id order; edge
// attributes and sameAs relations are kept alongside.
type Store struct {
	subjects []model.Subject
	index    map[string]int64

	g     *simple.DirectedGraph
	attrs map[[2]int64]model.Edge

	sameAs   map[string][]string
	sameAttr map[[2]string]model.Edge
	clusters [][]string
	labels   map[string]string

	log *logger.Logger
}

// New builds a Store. Edges with unknown endpoints and self loops are ignored;
// for repeated prerequisite pairs the first edge is kept.
func New(subjects []model.Subject, edges []model.Edge, log *logger.Logger) *Store {
	sorted := append([]model.Subject(nil), subjects...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	s := &Store{
		subjects: sorted,
		index:    make(map[string]int64, len(sorted)),
		g:        simple.NewDirectedGraph(),
		attrs:    make(map[[2]int64]model.Edge),
		sameAs:   make(map[string][]string),
		sameAttr: make(map[[2]string]model.Edge),
		log:      log.With("component", "store"),
	}
	for i, subj := range sorted {
		s.index[subj.ID] = int64(i)
		s.g.AddNode(simple.Node(i))
	}

	for _, e := range edges {
		u, okU := s.index[e.Source]
		v, okV := s.index[e.Target]
		if !okU || !okV || u == v {
			continue
		}
		switch e.Kind {
		case model.EdgePrerequisite:
			key := [2]int64{u, v}
			if _, dup := s.attrs[key]; dup {
				continue
			}
			s.attrs[key] = e
			s.g.SetEdge(s.g.NewEdge(simple.Node(u), simple.Node(v)))
		case model.EdgeSameAs:
			s.addSameAs(e)
			s.addSameAs(model.Edge{Source: e.Target, Target: e.Source, Kind: e.Kind, Rule: e.Rule, Confidence: e.Confidence})
		}
	}
	for id := range s.sameAs {
		sort.Strings(s.sameAs[id])
	}

	s.clusters = cluster.NewDetector().Detect(sorted, s.sameAsEdges())
	s.labels = cluster.Labels(s.clusters)
	return s
}

func (s *Store) addSameAs(e model.Edge) {
	key := [2]string{e.Source, e.Target}
	if _, dup := s.sameAttr[key]; dup {
		return
	}
	s.sameAttr[key] = e
	s.sameAs[e.Source] = append(s.sameAs[e.Source], e.Target)
}

// Subject returns the subject with the given id.
func (s *Store) Subject(id string) (model.Subject, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Subject{}, false
	}
	return s.subjects[i], true
}

// Subjects returns every subject in id order.
func (s *Store) Subjects() []model.Subject {
	return append([]model.Subject(nil), s.subjects...)
}

func (s *Store) Len() int {
	return len(s.subjects)
}

// Edges returns prerequisite edges ordered by (source, target) followed by
// both directions of every sameAs pair.
func (s *Store) Edges() []model.Edge {
	out := make([]model.Edge, 0, len(s.attrs))
	for _, e := range s.attrs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return append(out, s.sameAsEdges()...)
}

func (s *Store) sameAsEdges() []model.Edge {
	var out []model.Edge
	for _, subj := range s.subjects {
		for _, other := range s.sameAs[subj.ID] {
			out = append(out, s.sameAttr[[2]string{subj.ID, other}])
		}
	}
	return out
}

// SameAs reports whether a and b were resolved as the same subject.
func (s *Store) SameAs(a, b string) bool {
	_, ok := s.sameAttr[[2]string{a, b}]
	return ok
}

// Equivalents returns the other members of id's sameAs class, in id order.
func (s *Store) Equivalents(id string) []string {
	label, ok := s.labels[id]
	if !ok {
		return nil
	}
	for _, class := range s.clusters {
		if class[0] != label {
			continue
		}
		out := make([]string, 0, len(class)-1)
		for _, member := range class {
			if member != id {
				out = append(out, member)
			}
		}
		return out
	}
	return nil
}

// Cluster returns id's class representative, or "" for a singleton.
func (s *Store) Cluster(id string) string {
	return s.labels[id]
}

func (s *Store) id(n graph.Node) string {
	return s.subjects[n.ID()].ID
}

// sortedNodes drains an iterator in id order so traversals are deterministic.
func sortedNodes(it graph.Nodes) []graph.Node {
	nodes := graph.NodesOf(it)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return nodes
}

func (s *Store) nodes(ids []string) []graph.Node {
	out := make([]graph.Node, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.index[id]; ok {
			out = append(out, s.g.Node(i))
		}
	}
	return out
}

// tarjanCycles returns the members of every non-trivial strongly connected
// component among ids.
func (s *Store) tarjanCycles(ids []string, o options) [][]string {
	sub := simple.NewDirectedGraph()
	in := make(map[int64]bool, len(ids))
	for _, n := range s.nodes(ids) {
		sub.AddNode(n)
		in[n.ID()] = true
	}
	for _, n := range s.nodes(ids) {
		for _, m := range sortedNodes(s.g.From(n.ID())) {
			if in[m.ID()] && o.allows(s.attrs[[2]int64{n.ID(), m.ID()}]) {
				sub.SetEdge(sub.NewEdge(n, m))
			}
		}
	}
	var cycles [][]string
	for _, scc := range topo.TarjanSCC(sub) {
		if len(scc) < 2 {
			continue
		}
		members := make([]string, 0, len(scc))
		for _, n := range scc {
			members = append(members, s.id(n))
		}
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}
