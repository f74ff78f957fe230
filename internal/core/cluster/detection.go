package cluster

import (
	"sort"

	"github.com/agenthands/coursegraph/internal/core/model"
)

// Detector groups subjects that were resolved as the same subject into
// equivalence classes.
type Detector interface {
	Detect(subjects []model.Subject, edges []model.Edge) [][]string
}

type SameAsDetector struct{}

func NewDetector() Detector {
	return &SameAsDetector{}
}

// Detect returns the connected components of the sameAs edges with at least
// two members. Members are sorted by id and classes by their first member.
func (d *SameAsDetector) Detect(subjects []model.Subject, edges []model.Edge) [][]string {
	known := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		known[s.ID] = struct{}{}
	}

	adj := make(map[string][]string)
	for _, e := range edges {
		if e.Kind != model.EdgeSameAs {
			continue
		}
		if _, ok := known[e.Source]; !ok {
			continue
		}
		if _, ok := known[e.Target]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	ids := make([]string, 0, len(known))
	for id := range known {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	visited := make(map[string]bool)
	var classes [][]string
	for _, id := range ids {
		if visited[id] {
			continue
		}
		var component []string
		d.dfs(id, adj, visited, &component)
		if len(component) >= 2 {
			sort.Strings(component)
			classes = append(classes, component)
		}
	}
	return classes
}

func (d *SameAsDetector) dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// Labels maps every member of every class to the class representative, its
// smallest id.
func Labels(classes [][]string) map[string]string {
	out := make(map[string]string)
	for _, class := range classes {
		for _, id := range class {
			out[id] = class[0]
		}
	}
	return out
}
