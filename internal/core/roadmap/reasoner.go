package roadmap

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agenthands/coursegraph/internal/core/matcher"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/core/store"
	"github.com/agenthands/coursegraph/internal/logger"
)

// DefaultCacheSize bounds each answer cache when no size is configured.
const DefaultCacheSize = 256

type cacheKey struct {
	input         string
	minConfidence float64
}

// Reasoner answers roadmap and successor queries against one graph snapshot.
// Answers are cached for the lifetime of the snapshot.
type Reasoner struct {
	store   *store.Store
	matcher *matcher.Matcher
	log     *logger.Logger

	roadmaps   *lru.Cache[cacheKey, []model.SubjectSummary]
	successors *lru.Cache[cacheKey, []model.Successor]
}

func NewReasoner(st *store.Store, m *matcher.Matcher, cacheSize int, log *logger.Logger) *Reasoner {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	roadmaps, _ := lru.New[cacheKey, []model.SubjectSummary](cacheSize)
	successors, _ := lru.New[cacheKey, []model.Successor](cacheSize)
	return &Reasoner{
		store:      st,
		matcher:    m,
		log:        log.With("component", "reasoner"),
		roadmaps:   roadmaps,
		successors: successors,
	}
}

// Backward returns the ordered roadmap that reaches target: the matched
// subjects plus all their prerequisites, prerequisites first and ties broken
// by semester. An unmatched target yields an empty roadmap.
func (r *Reasoner) Backward(target string, minConfidence float64) []model.SubjectSummary {
	key := cacheKey{input: strings.TrimSpace(target), minConfidence: minConfidence}
	if cached, ok := r.roadmaps.Get(key); ok {
		return clone(cached)
	}

	out := []model.SubjectSummary{}
	seeds := r.matcher.Match(key.input)
	if len(seeds) > 0 {
		opt := store.WithMinConfidence(minConfidence)
		relevant := append(append([]string(nil), seeds...), r.store.Ancestors(seeds, opt)...)
		order, ok := r.store.TopologicalOrder(relevant, opt)
		if !ok {
			r.log.Warn("roadmap contains a prerequisite cycle", "target", key.input)
		}
		for i, id := range order {
			s, _ := r.store.Subject(id)
			out = append(out, model.SubjectSummary{
				ID:         s.ID,
				Title:      s.Title,
				Semester:   s.Semester,
				Provenance: s.Catalog,
				Domain:     s.Domain,
				Step:       i + 1,
			})
		}
	}

	r.roadmaps.Add(key, out)
	return clone(out)
}

// Forward returns every subject that transitively follows the subject named
// in text. The located subject's sameAs equivalents are followed too. Each
// successor carries the rule of the edge that first reached it.
func (r *Reasoner) Forward(text string, minConfidence float64) []model.Successor {
	key := cacheKey{input: strings.TrimSpace(text), minConfidence: minConfidence}
	if cached, ok := r.successors.Get(key); ok {
		return clone(cached)
	}

	out := []model.Successor{}
	if seeds := r.seeds(key.input); len(seeds) > 0 {
		for _, reached := range r.store.Reach(seeds, store.WithMinConfidence(minConfidence)) {
			s, _ := r.store.Subject(reached.Edge.Target)
			out = append(out, model.Successor{
				ID:         s.ID,
				Title:      s.Title,
				Semester:   s.Semester,
				Reason:     reached.Edge.Rule.Reason(),
				Provenance: s.Catalog,
				Rule:       reached.Edge.Rule,
				Confidence: reached.Edge.Confidence,
				Depth:      reached.Depth,
			})
		}
		sort.SliceStable(out, func(i, j int) bool {
			ki, kj := model.SemesterKey(out[i].Semester), model.SemesterKey(out[j].Semester)
			if ki != kj {
				return ki < kj
			}
			if out[i].Depth != out[j].Depth {
				return out[i].Depth < out[j].Depth
			}
			return out[i].ID < out[j].ID
		})
	}

	r.successors.Add(key, out)
	return clone(out)
}

func (r *Reasoner) seeds(text string) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, s := range r.matcher.LocateAll(text) {
		add(s.ID)
		for _, eq := range r.store.Equivalents(s.ID) {
			add(eq)
		}
	}
	return ids
}

// clone never returns nil so empty answers encode as [].
func clone[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}
