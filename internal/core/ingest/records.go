package ingest

import (
	"encoding/json"
	"strings"

	"github.com/agenthands/coursegraph/internal/core/model"
)

// record is the catalog-independent intermediate every adapter produces.
type record struct {
	ID            string `validate:"required"`
	Title         string `validate:"required"`
	Catalog       model.Catalog
	Semester      string
	Description   string
	Domain        string
	Concepts      []string
	Prerequisites []string
	Competency    []string
	TechStack     []string
}

// adapter decodes one raw catalog record.
type adapter func(raw json.RawMessage) (record, error)

var adapters = map[model.Catalog]adapter{
	model.CatalogUniversity: decodeUniversity,
	model.CatalogCompetency: decodeCompetency,
}

// universityRecord is the university curriculum export. Registrar dumps use
// SBJ_NO / SBJ_NM instead of ID / Title.
type universityRecord struct {
	ID            flexString `json:"ID"`
	SubjectNo     flexString `json:"SBJ_NO"`
	Title         string     `json:"Title"`
	SubjectName   string     `json:"SBJ_NM"`
	Source        string     `json:"Source"`
	Semester      flexString `json:"Semester"`
	Concepts      stringList `json:"Concepts"`
	Prerequisites stringList `json:"Prerequisites"`
	Description   string     `json:"Description"`
	Domain        string     `json:"Domain"`
	Competency    stringList `json:"Competency"`
	TechStack     stringList `json:"TechStack"`
}

func decodeUniversity(raw json.RawMessage) (record, error) {
	var r universityRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return record{}, err
	}
	return record{
		ID:            firstNonEmpty(string(r.ID), string(r.SubjectNo)),
		Title:         firstNonEmpty(r.Title, r.SubjectName),
		Catalog:       sourceOr(r.Source, model.CatalogUniversity),
		Semester:      string(r.Semester),
		Description:   r.Description,
		Domain:        r.Domain,
		Concepts:      r.Concepts,
		Prerequisites: r.Prerequisites,
		Competency:    r.Competency,
		TechStack:     r.TechStack,
	}, nil
}

// competencyRecord is the competency-program export; COSS_Link carries the
// field (domain) label.
type competencyRecord struct {
	ID            flexString `json:"ID"`
	Title         string     `json:"Title"`
	Source        string     `json:"Source"`
	Semester      flexString `json:"Semester"`
	Concepts      stringList `json:"Concepts"`
	Prerequisites stringList `json:"Prerequisites"`
	Description   string     `json:"Description"`
	Competency    stringList `json:"Competency"`
	Link          domainHint `json:"COSS_Link"`
	TechStack     stringList `json:"TechStack"`
}

func decodeCompetency(raw json.RawMessage) (record, error) {
	var r competencyRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return record{}, err
	}
	return record{
		ID:            string(r.ID),
		Title:         r.Title,
		Catalog:       sourceOr(r.Source, model.CatalogCompetency),
		Semester:      string(r.Semester),
		Description:   r.Description,
		Domain:        r.Link.Field,
		Concepts:      r.Concepts,
		Prerequisites: r.Prerequisites,
		Competency:    r.Competency,
		TechStack:     r.TechStack,
	}, nil
}

func sourceOr(source string, fallback model.Catalog) model.Catalog {
	if c, ok := model.ParseCatalog(source); ok {
		return c
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
