package model

import (
	"math"
	"strconv"
	"strings"
)

// Catalog identifies which source catalog produced a record.
type Catalog string

const (
	// CatalogUniversity is the university curriculum (catalog A).
	CatalogUniversity Catalog = "JBNU"
	// CatalogCompetency is the external competency-based program (catalog B).
	CatalogCompetency Catalog = "COSS"
)

// Catalogs lists the known catalogs in their canonical order.
var Catalogs = []Catalog{CatalogUniversity, CatalogCompetency}

// ParseCatalog accepts the canonical names plus the "A"/"B" shorthands.
func ParseCatalog(s string) (Catalog, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "JBNU", "A", "UNIVERSITY":
		return CatalogUniversity, true
	case "COSS", "B", "COMPETENCY":
		return CatalogCompetency, true
	}
	return "", false
}

// SemesterUnspecified is the sentinel for records without a usable semester.
const SemesterUnspecified = "unspecified"

// DefaultDomain is assigned when neither the source nor the keyword table yields a domain.
const DefaultDomain = "General"

type Subject struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Catalog               Catalog  `json:"provenance"`
	Semester              string   `json:"semester"`
	Concepts              []string `json:"concepts"`
	Domain                string   `json:"domain"`
	Description           string   `json:"description,omitempty"`
	DeclaredPrerequisites []string `json:"declared_prerequisites,omitempty"`
	CompetencyTags        []string `json:"competency_tags,omitempty"`
	TechStackTags         []string `json:"tech_stack_tags,omitempty"`
}

// SemesterKey orders semesters: "X-Y" maps to X*10+Y, anything else sorts last.
func (s Subject) SemesterKey() int {
	return SemesterKey(s.Semester)
}

func SemesterKey(semester string) int {
	year, term, ok := splitSemester(semester)
	if !ok {
		return math.MaxInt32
	}
	return year*10 + term
}

// NormalizeSemester keeps "<year>-<term>" labels and maps everything else to
// SemesterUnspecified.
func NormalizeSemester(raw string) string {
	raw = strings.TrimSpace(raw)
	year, term, ok := splitSemester(raw)
	if !ok {
		return SemesterUnspecified
	}
	return strconv.Itoa(year) + "-" + strconv.Itoa(term)
}

func splitSemester(s string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || year < 0 {
		return 0, 0, false
	}
	term, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || term < 0 || term > 9 {
		return 0, 0, false
	}
	return year, term, true
}

// QualifyID prefixes a raw source id with its catalog unless it already
// carries that prefix, so ids stay unique across catalogs.
func QualifyID(c Catalog, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	prefix := string(c) + "_"
	if strings.HasPrefix(strings.ToUpper(raw), prefix) {
		return raw
	}
	return prefix + raw
}
