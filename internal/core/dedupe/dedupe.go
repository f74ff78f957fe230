package dedupe

import (
	"sort"

	"github.com/agenthands/coursegraph/internal/core/common"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/logger"
)

// DefaultThreshold is the minimum concept Jaccard index for a sameAs link.
const DefaultThreshold = 0.8

// Resolver links records from different catalogs that describe the same
// subject. It favours recall: two subjects with the same title are merged even
// when their content differs, and a high concept overlap is enough on its own.
type Resolver struct {
	Threshold float64
	log       *logger.Logger
}

func NewResolver(threshold float64, log *logger.Logger) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Resolver{
		Threshold: threshold,
		log:       log.With("component", "resolver"),
	}
}

// ResolveDuplicates compares every cross-catalog pair. Pairs are visited in id
// order so the result is deterministic.
func (r *Resolver) ResolveDuplicates(subjects []model.Subject) model.Equivalences {
	sorted := append([]model.Subject(nil), subjects...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	titles := make([]string, len(sorted))
	sets := make([]map[string]struct{}, len(sorted))
	for i, s := range sorted {
		titles[i] = common.NormalizeTitle(s.Title)
		sets[i] = conceptSet(s.Concepts)
	}

	var pairs []model.Equivalence
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if a.Catalog == b.Catalog {
				continue
			}
			if titles[i] != "" && titles[i] == titles[j] {
				pairs = append(pairs, model.Equivalence{A: a.ID, B: b.ID, Rule: model.RuleSameTitle, Score: 1})
				continue
			}
			if len(sets[i]) == 0 || len(sets[j]) == 0 {
				continue
			}
			if score := Jaccard(sets[i], sets[j]); score >= r.Threshold {
				pairs = append(pairs, model.Equivalence{A: a.ID, B: b.ID, Rule: model.RuleConceptOverlap, Score: score})
			}
		}
	}

	r.log.Debug("resolved equivalences", "subjects", len(sorted), "pairs", len(pairs))
	return model.NewEquivalences(pairs)
}

// Jaccard is |a ∩ b| / |a ∪ b|; two empty sets score 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func conceptSet(concepts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(concepts))
	for _, c := range concepts {
		if cc := common.CanonicalConcept(c); cc != "" {
			set[cc] = struct{}{}
		}
	}
	return set
}
