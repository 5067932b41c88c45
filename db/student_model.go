package db

import (
	"context"
)

// UpsertStudent creates the student on first contact. Students are never
// deleted by the engine.
func (s *Store) UpsertStudent(ctx context.Context, legajo string) error {
	cypher := `
	MERGE (s:Student {legajo: $legajo})
	RETURN s.legajo AS legajo
	`
	_, err := s.run(ctx, cypher, map[string]any{"legajo": legajo})
	return err
}
