package model

// PairKey is an unordered subject pair, smaller id first.
type PairKey [2]string

func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{a, b}
}

// Equivalence is one sameAs decision of the entity resolver.
type Equivalence struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Rule  Rule    `json:"rule"`
	Score float64 `json:"score"` // Jaccard index, 1 for title matches
}

// Equivalences is the resolver's output: an ordered list plus a symmetric lookup.
type Equivalences struct {
	Pairs []Equivalence
	index map[PairKey]struct{}
}

func NewEquivalences(pairs []Equivalence) Equivalences {
	idx := make(map[PairKey]struct{}, len(pairs))
	for _, p := range pairs {
		idx[NewPairKey(p.A, p.B)] = struct{}{}
	}
	return Equivalences{Pairs: pairs, index: idx}
}

// Has reports whether a and b were resolved as the same subject, in either order.
func (e Equivalences) Has(a, b string) bool {
	if e.index == nil {
		return false
	}
	_, ok := e.index[NewPairKey(a, b)]
	return ok
}

// Edges expands every pair into both directed sameAs edges.
func (e Equivalences) Edges() []Edge {
	out := make([]Edge, 0, 2*len(e.Pairs))
	for _, p := range e.Pairs {
		out = append(out, NewSameAs(p.A, p.B, p.Rule), NewSameAs(p.B, p.A, p.Rule))
	}
	return out
}
