package db

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store is the knowledge-base access layer. Every method issues a single
// parameterized cypher statement; the engine relies on the backend's own
// atomicity for read-modify-write updates and adds no locking of its own.
type Store struct {
	driver neo4j.DriverWithContext
}

func NewStore(ctx context.Context, uri, user, password string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, err
	}

	return &Store{driver: driver}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Store) run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, cypher, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

func recordString(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	str, _ := value.(string)
	return str
}

func recordFloat(record *neo4j.Record, key string) float64 {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return 0.0
	}
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0.0
	}
}

func recordInt(record *neo4j.Record, key string) int64 {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return 0
	}
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// recordVector converts a stored embedding (a list of numbers) into []float32.
func recordVector(record *neo4j.Record, key string) []float32 {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil
	}

	vec := make([]float32, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			vec = append(vec, float32(v))
		case int64:
			vec = append(vec, float32(v))
		}
	}
	return vec
}
