package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/core/common"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/logger"
)

var (
	ErrNoSources      = errors.New("no catalog sources configured")
	ErrUnknownCatalog = errors.New("unknown catalog")
)

// Source is one catalog file.
type Source struct {
	Path    string
	Catalog model.Catalog
}

// SourcesFromConfig converts the [[catalogs]] section.
func SourcesFromConfig(entries []config.CatalogSource) ([]Source, error) {
	if len(entries) == 0 {
		return nil, ErrNoSources
	}
	out := make([]Source, 0, len(entries))
	for _, e := range entries {
		c, ok := model.ParseCatalog(e.Catalog)
		if !ok {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownCatalog, e.Catalog, e.Path)
		}
		out = append(out, Source{Path: e.Path, Catalog: c})
	}
	return out, nil
}

// Result is the merged output of every source.
type Result struct {
	Subjects []model.Subject
	Read     map[model.Catalog]int
	Skipped  map[model.Catalog]int
}

type Normalizer struct {
	log      *logger.Logger
	validate *validator.Validate
}

func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{
		log:      log.With("component", "normalizer"),
		validate: validator.New(),
	}
}

// Load reads every source concurrently and merges the results in source
// order. Any unreadable or unparseable file fails the whole load.
func (n *Normalizer) Load(ctx context.Context, sources []Source) (*Result, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	parsed := make([]*Result, len(sources))
	g, _ := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			data, err := os.ReadFile(src.Path)
			if err != nil {
				return fmt.Errorf("failed to read catalog file '%s': %w", src.Path, err)
			}
			res, err := n.Parse(data, filepath.Ext(src.Path), src)
			if err != nil {
				return fmt.Errorf("failed to parse catalog file '%s': %w", src.Path, err)
			}
			parsed[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Result{
		Read:    make(map[model.Catalog]int),
		Skipped: make(map[model.Catalog]int),
	}
	seen := make(map[string]struct{})
	for i, res := range parsed {
		for c, v := range res.Read {
			merged.Read[c] += v
		}
		for c, v := range res.Skipped {
			merged.Skipped[c] += v
		}
		for _, s := range res.Subjects {
			if _, dup := seen[s.ID]; dup {
				n.log.Warn("skipping duplicate subject id", "file", sources[i].Path, "id", s.ID)
				merged.Skipped[s.Catalog]++
				continue
			}
			seen[s.ID] = struct{}{}
			merged.Subjects = append(merged.Subjects, s)
		}
	}
	return merged, nil
}

// Parse decodes one catalog file. ext selects JSON or YAML. Individual bad
// records are skipped and counted; only a malformed file is an error.
func (n *Normalizer) Parse(data []byte, ext string, src Source) (*Result, error) {
	decode, ok := adapters[src.Catalog]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCatalog, src.Catalog)
	}

	raws, err := splitRecords(data, ext)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Read:    map[model.Catalog]int{src.Catalog: len(raws)},
		Skipped: make(map[model.Catalog]int),
	}
	for i, raw := range raws {
		rec, err := decode(raw)
		if err == nil {
			err = n.validate.Struct(rec)
		}
		if err != nil {
			n.log.Warn("skipping malformed record", "file", src.Path, "index", i, "reason", err)
			res.Skipped[src.Catalog]++
			continue
		}
		res.Subjects = append(res.Subjects, normalize(rec))
	}
	return res, nil
}

// normalize maps an adapted record to the canonical Subject.
func normalize(rec record) model.Subject {
	title := strings.TrimSpace(rec.Title)
	domain := strings.TrimSpace(rec.Domain)
	if domain == "" {
		domain = DeriveDomain(title)
	}
	return model.Subject{
		ID:                    model.QualifyID(rec.Catalog, rec.ID),
		Title:                 title,
		Catalog:               rec.Catalog,
		Semester:              model.NormalizeSemester(rec.Semester),
		Concepts:              common.CanonicalConcepts(rec.Concepts),
		Domain:                domain,
		Description:           strings.TrimSpace(rec.Description),
		DeclaredPrerequisites: common.Dedupe(rec.Prerequisites),
		CompetencyTags:        common.Dedupe(rec.Competency),
		TechStackTags:         DeriveTechStack(title, rec.TechStack),
	}
}

func splitRecords(data []byte, ext string) ([]json.RawMessage, error) {
	switch strings.ToLower(ext) {
	case ".json":
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("expected a JSON array of records: %w", err)
		}
		return raws, nil
	case ".yaml", ".yml":
		var nodes []yaml.Node
		if err := yaml.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("expected a YAML sequence of records: %w", err)
		}
		raws := make([]json.RawMessage, 0, len(nodes))
		for _, node := range nodes {
			raws = append(raws, yamlRecord(&node))
		}
		return raws, nil
	}
	return nil, fmt.Errorf("unsupported catalog format %q", ext)
}

// yamlRecord re-encodes a YAML mapping as JSON so both formats share the
// same adapters. A node that is not a mapping becomes an invalid record.
func yamlRecord(node *yaml.Node) json.RawMessage {
	var m map[string]interface{}
	if err := node.Decode(&m); err != nil {
		return json.RawMessage(`null`)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return json.RawMessage(`null`)
	}
	return b
}
