package inference

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/agenthands/coursegraph/internal/core/common"
)

// KeywordRule fires when the predecessor title contains Predecessor and the
// successor title contains any of Successors. All keywords are compared
// against lower-cased, space-stripped titles.
type KeywordRule struct {
	Predecessor string
	Successors  []string
}

// OverrideRule is a high-confidence cross-catalog link. With Exact set the
// predecessor title must equal Predecessor instead of containing it.
type OverrideRule struct {
	Predecessor string
	Exact       bool
	Successors  []string
}

// RuleSet holds every heuristic table the Inferencer consults.
type RuleSet struct {
	CrossOverrides []OverrideRule
	CrossKeywords  []KeywordRule
	// IntroMarkers are removed from an introductory title to get its stem.
	// Longer markers come first so "introduction" is not cut to "duction".
	IntroMarkers  []string
	IntraKeywords []KeywordRule
}

func DefaultRules() RuleSet {
	return RuleSet{
		CrossOverrides: []OverrideRule{
			{Predecessor: "선형대수", Successors: []string{"머신러닝", "딥러닝"}},
			{Predecessor: "linearalgebra", Successors: []string{"machinelearning", "deeplearning"}},
			{Predecessor: "확률", Successors: []string{"통계", "머신러닝"}},
			{Predecessor: "probability", Successors: []string{"statistic", "machinelearning"}},
			{Predecessor: "인공지능", Exact: true, Successors: []string{"머신러닝", "딥러닝", "비전", "자연어", "강화학습", "심화"}},
			{Predecessor: "artificialintelligence", Exact: true, Successors: []string{"machinelearning", "deeplearning", "vision", "naturallanguage", "reinforcementlearning", "advanced"}},
			{Predecessor: "머신러닝", Exact: true, Successors: []string{"딥러닝", "심화", "비전", "자연어"}},
			{Predecessor: "machinelearning", Exact: true, Successors: []string{"deeplearning", "advanced", "vision", "naturallanguage"}},
		},
		CrossKeywords: []KeywordRule{
			{Predecessor: "프로그래밍", Successors: []string{"자바", "객체지향", "웹", "앱", "파이썬", "c++", "자료구조", "알고리즘"}},
			{Predecessor: "programming", Successors: []string{"java", "objectoriented", "web", "app", "python", "c++", "datastructure", "algorithm"}},
			{Predecessor: "자료구조", Successors: []string{"알고리즘", "데이터", "인공지능"}},
			{Predecessor: "datastructure", Successors: []string{"algorithm", "data", "artificialintelligence"}},
			{Predecessor: "알고리즘", Successors: []string{"인공지능", "머신러닝", "딥러닝", "최적화"}},
			{Predecessor: "algorithm", Successors: []string{"artificialintelligence", "machinelearning", "deeplearning", "optimization"}},
			{Predecessor: "데이터베이스", Successors: []string{"빅데이터", "데이터사이언스", "웹", "백엔드"}},
			{Predecessor: "database", Successors: []string{"bigdata", "datascience", "web", "backend"}},
			{Predecessor: "운영체제", Successors: []string{"시스템", "클라우드", "보안", "임베디드"}},
			{Predecessor: "operatingsystem", Successors: []string{"system", "cloud", "security", "embedded"}},
			{Predecessor: "네트워크", Successors: []string{"보안", "클라우드", "웹", "iot", "사물인터넷"}},
			{Predecessor: "network", Successors: []string{"security", "cloud", "web", "iot"}},
			{Predecessor: "소프트웨어공학", Successors: []string{"설계", "프로젝트", "캡스톤", "방법론"}},
			{Predecessor: "softwareengineering", Successors: []string{"design", "project", "capstone", "methodology"}},
			{Predecessor: "인공지능", Successors: []string{"머신러닝", "딥러닝", "비전", "자연어", "로봇"}},
			{Predecessor: "artificialintelligence", Successors: []string{"machinelearning", "deeplearning", "vision", "naturallanguage", "robot"}},
			{Predecessor: "선형대수", Successors: []string{"머신러닝", "딥러닝", "그래픽스", "통계", "최적화"}},
			{Predecessor: "linearalgebra", Successors: []string{"machinelearning", "deeplearning", "graphics", "statistic", "optimization"}},
			{Predecessor: "통계", Successors: []string{"머신러닝", "데이터사이언스", "빅데이터", "인공지능"}},
			{Predecessor: "statistic", Successors: []string{"machinelearning", "datascience", "bigdata", "artificialintelligence"}},
			{Predecessor: "수학", Successors: []string{"통계", "암호", "그래픽스", "인공지능"}},
			{Predecessor: "math", Successors: []string{"statistic", "cryptography", "graphics", "artificialintelligence"}},
		},
		IntroMarkers: []string{
			"introductionto", "introduction", "introto", "intro",
			"fundamentalsof", "fundamentals", "basicsof", "basics",
			"개론", "기초", "입문",
		},
		IntraKeywords: []KeywordRule{
			{Predecessor: "선형대수", Successors: []string{"공학수학", "수치해석", "통계", "그래픽스", "영상처리"}},
			{Predecessor: "linearalgebra", Successors: []string{"engineeringmath", "numericalanalysis", "statistic", "graphics", "imageprocessing"}},
			{Predecessor: "자료구조", Successors: []string{"알고리즘", "운영체제", "데이터베이스", "컴파일러"}},
			{Predecessor: "datastructure", Successors: []string{"algorithm", "operatingsystem", "database", "compiler"}},
		},
	}
}

// MatchOverride reports whether a cross-catalog override links pred to succ.
// Both titles must already be normalised.
func (rs RuleSet) MatchOverride(pred, succ string) bool {
	for _, r := range rs.CrossOverrides {
		hit := strings.Contains(pred, r.Predecessor)
		if r.Exact {
			hit = pred == r.Predecessor
		}
		if hit && common.ContainsAny(succ, r.Successors...) {
			return true
		}
	}
	return false
}

func (rs RuleSet) MatchCrossKeyword(pred, succ string) bool {
	return matchKeywords(rs.CrossKeywords, pred, succ)
}

func (rs RuleSet) MatchIntraKeyword(pred, succ string) bool {
	return matchKeywords(rs.IntraKeywords, pred, succ)
}

func matchKeywords(rules []KeywordRule, pred, succ string) bool {
	for _, r := range rules {
		if strings.Contains(pred, r.Predecessor) && common.ContainsAny(succ, r.Successors...) {
			return true
		}
	}
	return false
}

// IntroStem returns the normalised title with every intro marker removed, and
// whether the title carried a marker at all.
func (rs RuleSet) IntroStem(title string) (string, bool) {
	norm := common.NormalizeTitle(title)
	stem := norm
	for _, m := range rs.IntroMarkers {
		stem = strings.ReplaceAll(stem, m, "")
	}
	return stem, stem != norm
}

// MatchIntro reports whether an introductory pred precedes succ: pred's stem
// is non-trivial and contained in succ, and succ is not itself introductory.
func (rs RuleSet) MatchIntro(pred, succ string) bool {
	stem, ok := rs.IntroStem(pred)
	if !ok || len([]rune(stem)) < 2 {
		return false
	}
	if _, succIntro := rs.IntroStem(succ); succIntro {
		return false
	}
	return strings.Contains(common.NormalizeTitle(succ), stem)
}

// MatchSequence reports whether pred and succ share a stem and succ's ordinal
// is pred's plus one ("Calculus I" -> "Calculus II", "물리학1" -> "물리학2").
func MatchSequence(pred, succ string) bool {
	ps, pn, ok := sequenceOrdinal(pred)
	if !ok {
		return false
	}
	ss, sn, ok := sequenceOrdinal(succ)
	return ok && ps == ss && sn == pn+1
}

var romanOrdinals = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
}

// sequenceOrdinal splits a title into its normalised stem and trailing
// ordinal. Roman numerals count only as a separate final word.
func sequenceOrdinal(title string) (string, int, bool) {
	fields := strings.Fields(title)
	if len(fields) > 1 {
		if n, ok := romanOrdinals[strings.ToUpper(fields[len(fields)-1])]; ok {
			stem := common.NormalizeTitle(strings.Join(fields[:len(fields)-1], ""))
			return stem, n, stem != ""
		}
	}

	norm := common.NormalizeTitle(title)
	stem := strings.TrimRightFunc(norm, unicode.IsDigit)
	if stem == norm || stem == "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(norm[len(stem):])
	if err != nil {
		return "", 0, false
	}
	return stem, n, true
}
