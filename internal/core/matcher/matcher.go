package matcher

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agenthands/coursegraph/internal/core/common"
	"github.com/agenthands/coursegraph/internal/core/model"
)

// Matcher maps targets and free text onto subjects of one graph snapshot.
type Matcher struct {
	tracks   []Track
	subjects []model.Subject
	titles   []string
}

func New(subjects []model.Subject, tracks []Track) *Matcher {
	sorted := append([]model.Subject(nil), subjects...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	titles := make([]string, len(sorted))
	for i, s := range sorted {
		titles[i] = common.NormalizeTitle(s.Title)
	}
	return &Matcher{tracks: tracks, subjects: sorted, titles: titles}
}

// Keywords expands a target into its keyword set: the keywords of the first
// track it names, or the trimmed target itself.
func (m *Matcher) Keywords(target string) []string {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	norm := common.NormalizeTitle(target)
	for _, t := range m.tracks {
		if strings.Contains(norm, common.NormalizeTitle(t.Name)) {
			return t.Keywords
		}
		for _, alias := range t.Aliases {
			if strings.Contains(norm, common.NormalizeTitle(alias)) {
				return t.Keywords
			}
		}
	}
	return []string{target}
}

// Match returns the ids of the subjects a target selects, in id order.
// Subjects are selected by domain, competency tags or tech-stack tags; when
// none match, a target naming a subject title selects that subject.
func (m *Matcher) Match(target string) []string {
	keywords := m.Keywords(target)
	if len(keywords) == 0 {
		return nil
	}

	var ids []string
	for _, s := range m.subjects {
		if tagsMatch(s, keywords) {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) > 0 {
		return ids
	}

	for _, s := range m.LocateAll(target) {
		ids = append(ids, s.ID)
	}
	return ids
}

func tagsMatch(s model.Subject, keywords []string) bool {
	if fieldMatches(s.Domain, keywords) {
		return true
	}
	for _, tag := range s.CompetencyTags {
		if fieldMatches(tag, keywords) {
			return true
		}
	}
	for _, tag := range s.TechStackTags {
		if fieldMatches(tag, keywords) {
			return true
		}
	}
	return false
}

// fieldMatches is a case-insensitive substring test that also tolerates
// spacing differences ("machine learning" vs "MachineLearning").
func fieldMatches(field string, keywords []string) bool {
	if field == "" {
		return false
	}
	lower := strings.ToLower(field)
	stripped := common.NormalizeTitle(field)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lower, kw) || strings.Contains(stripped, common.NormalizeTitle(kw)) {
			return true
		}
	}
	return false
}

// Locate finds the subject whose title occurs in text. The longest title
// wins; equal lengths fall back to the lowest id.
func (m *Matcher) Locate(text string) (model.Subject, bool) {
	i := m.locate(text)
	if i < 0 {
		return model.Subject{}, false
	}
	return m.subjects[i], true
}

// LocateAll returns every subject sharing the title Locate picks, so records
// of the same subject from both catalogs are found together.
func (m *Matcher) LocateAll(text string) []model.Subject {
	i := m.locate(text)
	if i < 0 {
		return nil
	}
	var out []model.Subject
	for j, t := range m.titles {
		if t == m.titles[i] {
			out = append(out, m.subjects[j])
		}
	}
	return out
}

func (m *Matcher) locate(text string) int {
	norm := common.NormalizeTitle(text)
	if norm == "" {
		return -1
	}
	best, bestLen := -1, 0
	for i, t := range m.titles {
		if t == "" || !strings.Contains(norm, t) {
			continue
		}
		// subjects are in id order, so strict > keeps the lowest id on ties
		if n := utf8.RuneCountInString(t); n > bestLen {
			best, bestLen = i, n
		}
	}
	return best
}
