package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Statement is one parameterised Cypher statement.
type Statement struct {
	Query  string
	Params map[string]interface{}
}

type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	// ExecuteBatch runs every statement in one write transaction.
	ExecuteBatch(ctx context.Context, stmts []Statement) error
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
