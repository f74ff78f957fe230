package inference

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/agenthands/coursegraph/internal/core/common"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/logger"
)

// Options toggles the optional rule families.
type Options struct {
	// WeakEdges enables the shared-concept fallback for cross-catalog pairs.
	WeakEdges bool
	// Bidirectional also bridges competency subjects into the university
	// catalog. By default only university -> competency edges are inferred.
	Bidirectional bool
}

// Stats counts what the inference pass did.
type Stats struct {
	ByRule             map[model.Rule]int
	Dangling           int
	SuppressedBySameAs int
	DroppedForCycle    int
	Duplicates         int
}

// Result is the deduplicated prerequisite edge list plus the pass counters.
type Result struct {
	Edges []model.Edge
	Stats Stats
}

type Inferencer struct {
	Rules   RuleSet
	Options Options
	log     *logger.Logger
}

func NewInferencer(rules RuleSet, opts Options, log *logger.Logger) *Inferencer {
	return &Inferencer{
		Rules:   rules,
		Options: opts,
		log:     log.With("component", "inferencer"),
	}
}

// Infer derives prerequisite edges in family order: declared, cross-catalog,
// intra-catalog. The first family to produce a directed pair owns it.
func (inf *Inferencer) Infer(subjects []model.Subject, eq model.Equivalences) *Result {
	sorted := append([]model.Subject(nil), subjects...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	p := newPass(sorted, eq, inf.log)
	inf.declared(p)
	inf.crossCatalog(p)
	inf.intraCatalog(p)

	inf.log.Info("inferred prerequisites",
		"edges", len(p.edges),
		"dangling", p.stats.Dangling,
		"suppressed_by_same_as", p.stats.SuppressedBySameAs,
		"dropped_for_cycle", p.stats.DroppedForCycle)
	return &Result{Edges: p.edges, Stats: p.stats}
}

func (inf *Inferencer) declared(p *pass) {
	for _, s := range p.subjects {
		for _, ref := range s.DeclaredPrerequisites {
			pred, ok := p.resolveRef(s.Catalog, ref)
			if !ok {
				p.stats.Dangling++
				inf.log.Warn("dropping dangling prerequisite", "subject", s.ID, "ref", ref)
				continue
			}
			if pred == s.ID {
				continue
			}
			p.add(pred, s.ID, model.RuleDeclared)
		}
	}
}

func (inf *Inferencer) crossCatalog(p *pass) {
	directions := [][2]model.Catalog{{model.CatalogUniversity, model.CatalogCompetency}}
	if inf.Options.Bidirectional {
		directions = append(directions, [2]model.Catalog{model.CatalogCompetency, model.CatalogUniversity})
	}
	for _, dir := range directions {
		for _, pred := range p.byCatalog[dir[0]] {
			for _, succ := range p.byCatalog[dir[1]] {
				if rule, ok := inf.crossRule(p, pred, succ); ok {
					p.add(p.subjects[pred].ID, p.subjects[succ].ID, rule)
				}
			}
		}
	}
}

func (inf *Inferencer) crossRule(p *pass, pred, succ int) (model.Rule, bool) {
	pt, st := p.titles[pred], p.titles[succ]
	switch {
	case inf.Rules.MatchOverride(pt, st):
		return model.RuleCrossOverride, true
	case inf.Rules.MatchCrossKeyword(pt, st):
		return model.RuleCrossKeyword, true
	case inf.Options.WeakEdges && sharesConcept(p.subjects[pred].Concepts, p.subjects[succ].Concepts):
		return model.RuleSharedConcept, true
	}
	return "", false
}

func (inf *Inferencer) intraCatalog(p *pass) {
	for _, c := range model.Catalogs {
		members := p.byCatalog[c]
		for _, a := range members {
			for _, b := range members {
				if a == b {
					continue
				}
				if rule, ok := inf.intraRule(p, a, b); ok {
					p.add(p.subjects[a].ID, p.subjects[b].ID, rule)
				}
			}
		}
	}
}

func (inf *Inferencer) intraRule(p *pass, pred, succ int) (model.Rule, bool) {
	pt, st := p.subjects[pred].Title, p.subjects[succ].Title
	switch {
	case inf.Rules.MatchIntro(pt, st):
		return model.RuleIntraIntro, true
	case MatchSequence(pt, st):
		return model.RuleIntraSequence, true
	case inf.Rules.MatchIntraKeyword(p.titles[pred], p.titles[succ]):
		return model.RuleIntraKeyword, true
	}
	return "", false
}

func sharesConcept(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, c := range a {
		set[c] = struct{}{}
	}
	for _, c := range b {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}

// pass is the mutable state of one Infer call.
type pass struct {
	subjects  []model.Subject
	titles    []string
	index     map[string]int
	byCatalog map[model.Catalog][]int
	eq        model.Equivalences
	log       *logger.Logger

	g     *simple.DirectedGraph
	seen  map[[2]string]struct{}
	edges []model.Edge
	stats Stats
}

func newPass(subjects []model.Subject, eq model.Equivalences, log *logger.Logger) *pass {
	p := &pass{
		subjects:  subjects,
		titles:    make([]string, len(subjects)),
		index:     make(map[string]int, len(subjects)),
		byCatalog: make(map[model.Catalog][]int),
		eq:        eq,
		log:       log,
		g:         simple.NewDirectedGraph(),
		seen:      make(map[[2]string]struct{}),
		stats:     Stats{ByRule: make(map[model.Rule]int)},
	}
	for i, s := range subjects {
		p.titles[i] = common.NormalizeTitle(s.Title)
		p.index[s.ID] = i
		p.byCatalog[s.Catalog] = append(p.byCatalog[s.Catalog], i)
		p.g.AddNode(simple.Node(i))
	}
	return p
}

// resolveRef finds a declared prerequisite: the id qualified with the
// subject's own catalog, then the raw id, then the other catalogs.
func (p *pass) resolveRef(own model.Catalog, ref string) (string, bool) {
	candidates := []string{model.QualifyID(own, ref), ref}
	for _, c := range model.Catalogs {
		if c != own {
			candidates = append(candidates, model.QualifyID(c, ref))
		}
	}
	for _, id := range candidates {
		if _, ok := p.index[id]; ok {
			return id, true
		}
	}
	return "", false
}

// add records pred -> succ unless the pair is sameAs, already present, or
// (for heuristic rules) would close a cycle.
func (p *pass) add(pred, succ string, rule model.Rule) {
	if p.eq.Has(pred, succ) {
		p.stats.SuppressedBySameAs++
		p.log.Debug("sameAs suppresses prerequisite", "source", pred, "target", succ, "rule", rule)
		return
	}
	key := [2]string{pred, succ}
	if _, dup := p.seen[key]; dup {
		p.stats.Duplicates++
		return
	}

	u, v := simple.Node(p.index[pred]), simple.Node(p.index[succ])
	if rule != model.RuleDeclared && topo.PathExistsIn(p.g, v, u) {
		p.stats.DroppedForCycle++
		p.log.Debug("dropping edge that would close a cycle", "source", pred, "target", succ, "rule", rule)
		return
	}

	p.seen[key] = struct{}{}
	p.g.SetEdge(p.g.NewEdge(u, v))
	p.edges = append(p.edges, model.NewPrerequisite(pred, succ, rule))
	p.stats.ByRule[rule]++
}
