package db

import (
	"context"
	"fmt"
)

// ScoredID is the cheap first-phase result of a similarity search.
type ScoredID struct {
	ID    string
	Score float64
}

// VectorRow is one entity id with its stored embedding, used by the
// brute-force strategy.
type VectorRow struct {
	ID     string
	Vector []float32
}

// Payload is the hydrated second-phase result. Parent fields are only set for
// sections, which belong to exactly one document.
type Payload struct {
	ID         string
	Name       string
	Content    string
	ParentID   string
	ParentName string
}

// QueryNodesIndex runs a native nearest-neighbor query against the kind's
// named vector index. Backends without vector index support return an error;
// the retriever's startup probe maps that to the brute-force strategy.
func (s *Store) QueryNodesIndex(ctx context.Context, kind EntityKind, vector []float32, k int) ([]ScoredID, error) {
	cypher := `
	CALL db.index.vector.queryNodes($index, $k, $vec)
	YIELD node, score
	RETURN node.id AS id, score
	`
	records, err := s.run(ctx, cypher, map[string]any{
		"index": kind.IndexName(),
		"k":     k,
		"vec":   vector,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]ScoredID, 0, len(records))
	for _, record := range records {
		hits = append(hits, ScoredID{
			ID:    recordString(record, "id"),
			Score: recordFloat(record, "score"),
		})
	}
	return hits, nil
}

// VectorRows fetches every entity of the kind that carries a stored vector.
func (s *Store) VectorRows(ctx context.Context, kind EntityKind) ([]VectorRow, error) {
	cypher := fmt.Sprintf(`
	MATCH (n:%s)
	WHERE n.vector IS NOT NULL
	RETURN n.id AS id, n.vector AS vec
	`, kind.Label())

	records, err := s.run(ctx, cypher, map[string]any{})
	if err != nil {
		return nil, err
	}

	rows := make([]VectorRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, VectorRow{
			ID:     recordString(record, "id"),
			Vector: recordVector(record, "vec"),
		})
	}
	return rows, nil
}

// FetchPayloads hydrates full payloads for the surviving ids of a search.
// Callers reassemble them in score order; ids missing from the graph are
// simply absent from the map.
func (s *Store) FetchPayloads(ctx context.Context, kind EntityKind, ids []string) (map[string]Payload, error) {
	var cypher string
	switch kind {
	case KindSection:
		cypher = `
		MATCH (s:Section) WHERE s.id IN $ids
		OPTIONAL MATCH (d:Document)-[:HAS_SECTION]->(s)
		RETURN s.id AS id, '' AS name, s.content AS content,
		       d.id AS parentId, d.nombre AS parentName
		`
	case KindDocument:
		cypher = `
		MATCH (d:Document) WHERE d.id IN $ids
		RETURN d.id AS id, d.nombre AS name, d.content AS content,
		       NULL AS parentId, NULL AS parentName
		`
	case KindTopic:
		cypher = `
		MATCH (t:Topic) WHERE t.id IN $ids
		RETURN t.id AS id, t.nombre AS name, '' AS content,
		       NULL AS parentId, NULL AS parentName
		`
	case KindExercise:
		cypher = `
		MATCH (e:Exercise) WHERE e.id IN $ids
		RETURN e.id AS id, '' AS name, e.task AS content,
		       NULL AS parentId, NULL AS parentName
		`
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	records, err := s.run(ctx, cypher, map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}

	payloads := make(map[string]Payload, len(records))
	for _, record := range records {
		payload := Payload{
			ID:         recordString(record, "id"),
			Name:       recordString(record, "name"),
			Content:    recordString(record, "content"),
			ParentID:   recordString(record, "parentId"),
			ParentName: recordString(record, "parentName"),
		}
		payloads[payload.ID] = payload
	}
	return payloads, nil
}

// TopicNames returns the display names of every topic, for the router's
// snap-to-known-topic instruction.
func (s *Store) TopicNames(ctx context.Context) ([]string, error) {
	cypher := `
	MATCH (t:Topic)
	WHERE t.nombre IS NOT NULL
	RETURN t.nombre AS nombre
	ORDER BY nombre
	`
	records, err := s.run(ctx, cypher, map[string]any{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		if name := recordString(record, "nombre"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
