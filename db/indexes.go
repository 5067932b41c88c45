package db

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"
)

// EnsureVectorIndexes creates the per-kind vector indexes idempotently, sized
// to the probed embedding dimension. Index creation failures are absorbed:
// the retriever degrades to brute-force cosine when the backend cannot serve
// native vector queries.
func (s *Store) EnsureVectorIndexes(ctx context.Context, dimension int) {
	tasks := make([]<-chan async.Result[bool], 0, len(VectorKinds()))
	for _, kind := range VectorKinds() {
		k := kind
		tasks = append(tasks, async.Go(func() (bool, error) {
			return s.ensureVectorIndex(ctx, k, dimension), nil
		}))
	}

	results, err := async.AwaitAll(tasks...)
	if err != nil {
		logger.Error("Vector index bootstrap failed", zap.Error(err))
		return
	}

	created := 0
	for _, ok := range results {
		if ok {
			created++
		}
	}
	logger.Info("Vector index bootstrap finished",
		zap.Int("indexes", created),
		zap.Int("dimension", dimension))
}

func (s *Store) ensureVectorIndex(ctx context.Context, kind EntityKind, dimension int) bool {
	cypher := fmt.Sprintf(`
	CREATE VECTOR INDEX %s IF NOT EXISTS FOR (n:%s)
	ON (n.vector)
	OPTIONS {
		indexConfig: {
			`+"`vector.dimensions`"+`: $dim,
			`+"`vector.similarity_function`"+`: 'cosine'
		}
	}
	`, kind.IndexName(), kind.Label())

	if _, err := s.run(ctx, cypher, map[string]any{"dim": dimension}); err == nil {
		return true
	}

	// Older servers use legacy index-config key names.
	legacy := fmt.Sprintf(`
	CREATE VECTOR INDEX %s IF NOT EXISTS FOR (n:%s)
	ON (n.vector)
	OPTIONS {
		indexConfig: {
			dimension: $dim,
			similarityFunction: 'cosine'
		}
	}
	`, kind.IndexName(), kind.Label())

	if _, err := s.run(ctx, legacy, map[string]any{"dim": dimension}); err != nil {
		logger.Info("Vector index unsupported, similarity will run in-process",
			zap.String("index", kind.IndexName()), zap.Error(err))
		return false
	}
	return true
}
