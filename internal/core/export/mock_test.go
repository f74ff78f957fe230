package export

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/coursegraph/internal/driver"
)

type MockDriver struct {
	Batches      [][]driver.Statement
	IndicesBuilt int
	BatchErr     error
	Results      map[string]neo4j.EagerResult
	Queries      []string
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	return m.Results[query], nil
}

func (m *MockDriver) ExecuteBatch(ctx context.Context, stmts []driver.Statement) error {
	if m.BatchErr != nil {
		return m.BatchErr
	}
	m.Batches = append(m.Batches, stmts)
	return nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.IndicesBuilt++
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
