package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/logger"
)

const (
	FlavorNeo4j    = "neo4j"
	FlavorMemgraph = "memgraph"
)

// BoltDriver talks to Neo4j or Memgraph over the Bolt protocol.
type BoltDriver struct {
	Driver   neo4j.DriverWithContext
	Database string
	Flavor   string
	log      *logger.Logger
}

func NewBoltDriver(ctx context.Context, cfg config.GraphDBConfig, log *logger.Logger) (*BoltDriver, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("graph database uri is not set")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create bolt driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URI, err)
	}

	flavor := strings.ToLower(cfg.Flavor)
	if flavor == "" {
		flavor = FlavorNeo4j
	}
	log.Info("connected to graph database", "uri", cfg.URI, "flavor", flavor)
	return &BoltDriver{Driver: driver, Database: cfg.Database, Flavor: flavor, log: log}, nil
}

func (d *BoltDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *BoltDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if d.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(d.Database))
	}
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (d *BoltDriver) ExecuteBatch(ctx context.Context, stmts []Statement) error {
	session := d.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: d.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, st := range stmts {
			res, err := tx.Run(ctx, st.Query, st.Params)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

// BuildIndices creates the Subject id index. Failures are logged and
// ignored since the index usually exists already.
func (d *BoltDriver) BuildIndices(ctx context.Context) error {
	q := CreateSubjectIndexNeo4j
	if d.Flavor == FlavorMemgraph {
		q = CreateSubjectIndexMemgraph
	}
	if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
		d.log.Warn("failed to create index", "query", q, "error", err)
	}
	return nil
}
