package common

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := response

	start := strings.IndexByte(jsonStr, '{')
	end := strings.LastIndexByte(jsonStr, '}')

	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	if end > start {
		jsonStr = jsonStr[start : end+1]
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// StripSpaces removes every whitespace rune.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizeTitle is the comparison form of a title: lower-cased, no whitespace.
func NormalizeTitle(title string) string {
	return strings.ToLower(StripSpaces(title))
}

// CanonicalConcept drops a parenthetical gloss, trims and lower-cases:
// "Linear Algebra (선형대수)" becomes "linear algebra".
func CanonicalConcept(concept string) string {
	if i := strings.IndexAny(concept, "(（"); i >= 0 {
		concept = concept[:i]
	}
	return strings.ToLower(strings.TrimSpace(concept))
}

// CanonicalConcepts canonicalises, de-duplicates and drops empty labels,
// keeping first-seen order.
func CanonicalConcepts(concepts []string) []string {
	out := make([]string, 0, len(concepts))
	seen := make(map[string]struct{}, len(concepts))
	for _, c := range concepts {
		cc := CanonicalConcept(c)
		if cc == "" {
			continue
		}
		if _, ok := seen[cc]; ok {
			continue
		}
		seen[cc] = struct{}{}
		out = append(out, cc)
	}
	return out
}

// ContainsAny reports whether s contains any of the needles.
func ContainsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Dedupe returns the trimmed, non-empty strings of in without repeats.
func Dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
