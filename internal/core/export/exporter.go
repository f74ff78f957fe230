package export

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/driver"
	"github.com/agenthands/coursegraph/internal/logger"
)

// Exporter mirrors a published graph into a Neo4j or Memgraph database.
type Exporter struct {
	Driver driver.GraphDriver
	log    *logger.Logger
}

func NewExporter(d driver.GraphDriver, log *logger.Logger) *Exporter {
	return &Exporter{Driver: d, log: log.With("component", "exporter")}
}

// Export replaces the database graph with view in a single transaction.
func (e *Exporter) Export(ctx context.Context, view model.GraphView) error {
	if err := e.Driver.BuildIndices(ctx); err != nil {
		return fmt.Errorf("failed to build indices: %w", err)
	}

	stmts := Statements(view)
	if err := e.Driver.ExecuteBatch(ctx, stmts); err != nil {
		return fmt.Errorf("failed to export graph %s: %w", view.BuildID, err)
	}
	e.log.Info("exported graph", "build_id", view.BuildID, "nodes", len(view.Nodes), "edges", len(view.Edges))
	return nil
}

// Published reads back the build id and subject count the database holds.
func (e *Exporter) Published(ctx context.Context) (string, int64, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.GetBuildQuery, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read build: %w", err)
	}
	if len(res.Records) == 0 {
		return "", 0, nil
	}
	buildID, _, err := neo4j.GetRecordValue[string](res.Records[0], "build_id")
	if err != nil {
		return "", 0, fmt.Errorf("failed to read build id: %w", err)
	}

	res, err = e.Driver.ExecuteQuery(ctx, driver.CountSubjectsQuery, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to count subjects: %w", err)
	}
	var count int64
	if len(res.Records) > 0 {
		if count, _, err = neo4j.GetRecordValue[int64](res.Records[0], "count"); err != nil {
			return "", 0, fmt.Errorf("failed to read subject count: %w", err)
		}
	}
	return buildID, count, nil
}

// Statements renders view as the Cypher batch Export runs.
func Statements(view model.GraphView) []driver.Statement {
	subjects := make([]map[string]interface{}, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		concepts := n.Concepts
		if concepts == nil {
			concepts = []string{}
		}
		subjects = append(subjects, map[string]interface{}{
			"id":         n.ID,
			"title":      n.Label,
			"provenance": string(n.Provenance),
			"semester":   n.Semester,
			"domain":     n.Domain,
			"concepts":   concepts,
			"cluster":    n.Cluster,
		})
	}

	var prereqs, sameAs []map[string]interface{}
	for _, ed := range view.Edges {
		rec := map[string]interface{}{
			"source":     ed.Source,
			"target":     ed.Target,
			"rule":       string(ed.Rule),
			"confidence": ed.Confidence,
		}
		switch ed.Kind {
		case model.EdgePrerequisite:
			prereqs = append(prereqs, rec)
		case model.EdgeSameAs:
			sameAs = append(sameAs, rec)
		}
	}

	stmts := []driver.Statement{{Query: driver.ClearGraphQuery}}
	if len(subjects) > 0 {
		stmts = append(stmts, driver.Statement{Query: driver.UpsertSubjectsQuery, Params: map[string]interface{}{"subjects": subjects}})
	}
	if len(prereqs) > 0 {
		stmts = append(stmts, driver.Statement{Query: driver.UpsertPrerequisitesQuery, Params: map[string]interface{}{"edges": prereqs}})
	}
	if len(sameAs) > 0 {
		stmts = append(stmts, driver.Statement{Query: driver.UpsertSameAsQuery, Params: map[string]interface{}{"edges": sameAs}})
	}
	stmts = append(stmts, driver.Statement{Query: driver.SetBuildQuery, Params: map[string]interface{}{
		"build_id": view.BuildID,
		"built_at": view.BuiltAt.UTC().Format(time.RFC3339Nano),
		"subjects": int64(len(view.Nodes)),
		"edges":    int64(len(view.Edges)),
	}})
	return stmts
}
