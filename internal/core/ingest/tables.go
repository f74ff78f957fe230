package ingest

import (
	"strings"

	"github.com/agenthands/coursegraph/internal/core/common"
	"github.com/agenthands/coursegraph/internal/core/model"
)

// DomainRule assigns Domain when the normalised title contains any keyword.
// Acronyms are matched case-sensitively against the space-stripped title so
// "AI" does not fire on words like "maintain".
type DomainRule struct {
	Domain   string
	Keywords []string
	Acronyms []string
}

// DomainRules is evaluated in order; the first matching rule wins.
var DomainRules = []DomainRule{
	{Domain: "인공지능", Keywords: []string{"인공지능", "머신러닝", "기계학습", "딥러닝", "machinelearning", "deeplearning", "artificialintelligence"}, Acronyms: []string{"AI"}},
	{Domain: "데이터사이언스", Keywords: []string{"데이터", "통계", "확률", "빅데이터", "data", "statistic", "probability"}},
	{Domain: "SW기초", Keywords: []string{"소프트웨어", "프로그래밍", "자바", "c++", "자료구조", "알고리즘", "컴퓨터", "software", "programming", "java", "datastructure", "algorithm", "computer"}},
	{Domain: "시스템/네트워크", Keywords: []string{"웹", "앱", "모바일", "네트워크", "운영체제", "시스템", "web", "mobile", "network", "operatingsystem", "system"}},
	{Domain: "기초수학", Keywords: []string{"수학", "미적분", "선형대수", "math", "calculus", "linearalgebra"}},
}

// DeriveDomain applies DomainRules to a title.
func DeriveDomain(title string) string {
	norm := common.NormalizeTitle(title)
	stripped := common.StripSpaces(title)
	for _, rule := range DomainRules {
		if common.ContainsAny(norm, rule.Keywords...) || common.ContainsAny(stripped, rule.Acronyms...) {
			return rule.Domain
		}
	}
	return model.DefaultDomain
}

// TechRule injects tech-stack tags for titles containing Keyword.
type TechRule struct {
	Keyword string
	Techs   []string
}

var TechRules = []TechRule{
	{Keyword: "머신러닝", Techs: []string{"Python", "ScikitLearn"}},
	{Keyword: "machinelearning", Techs: []string{"Python", "ScikitLearn"}},
	{Keyword: "딥러닝", Techs: []string{"PyTorch", "TensorFlow"}},
	{Keyword: "deeplearning", Techs: []string{"PyTorch", "TensorFlow"}},
	{Keyword: "클라우드", Techs: []string{"AWS", "Docker", "Kubernetes"}},
	{Keyword: "cloud", Techs: []string{"AWS", "Docker", "Kubernetes"}},
	{Keyword: "빅데이터", Techs: []string{"Hadoop", "Spark"}},
	{Keyword: "bigdata", Techs: []string{"Hadoop", "Spark"}},
	{Keyword: "웹", Techs: []string{"React", "Spring"}},
	{Keyword: "web", Techs: []string{"React", "Spring"}},
	{Keyword: "자바", Techs: []string{"Java", "Spring"}},
	{Keyword: "java", Techs: []string{"Java", "Spring"}},
	{Keyword: "데이터베이스", Techs: []string{"MySQL", "MongoDB"}},
	{Keyword: "database", Techs: []string{"MySQL", "MongoDB"}},
}

// DeriveTechStack merges the declared tags with TechRules hits on the title.
func DeriveTechStack(title string, declared []string) []string {
	norm := common.NormalizeTitle(title)
	tags := append([]string(nil), declared...)
	for _, rule := range TechRules {
		if strings.Contains(norm, rule.Keyword) {
			tags = append(tags, rule.Techs...)
		}
	}
	return common.Dedupe(tags)
}
