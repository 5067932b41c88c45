package db

import (
	"context"
	"strings"
)

// TopicLevel is one (topic, mastery level) pair for a student.
type TopicLevel struct {
	TopicID string
	Name    string
	Level   float64
}

// MasteryLevels returns the topics the student has a KNOWS edge for, sorted
// by level descending. A non-empty term filters by exact id or
// case-insensitive name.
func (s *Store) MasteryLevels(ctx context.Context, legajo, term string) ([]TopicLevel, error) {
	cypher := `
	MATCH (s:Student {legajo: $legajo})-[r:KNOWS]->(t:Topic)
	WHERE $term IS NULL OR t.id = $term OR toLower(t.nombre) = toLower($term)
	RETURN t.id AS topicId, t.nombre AS nombre, r.level AS level
	ORDER BY level DESC
	`
	records, err := s.run(ctx, cypher, map[string]any{
		"legajo": legajo,
		"term":   nullableTerm(term),
	})
	if err != nil {
		return nil, err
	}

	levels := make([]TopicLevel, 0, len(records))
	for _, record := range records {
		levels = append(levels, TopicLevel{
			TopicID: recordString(record, "topicId"),
			Name:    recordString(record, "nombre"),
			Level:   recordFloat(record, "level"),
		})
	}
	return levels, nil
}

// MasteryLevel reads the student's level for one topic, defaulting to 0.0
// when no edge exists: an unseen topic is assumed at minimum mastery.
func (s *Store) MasteryLevel(ctx context.Context, legajo, topicID string) (float64, error) {
	cypher := `
	OPTIONAL MATCH (s:Student {legajo: $legajo})-[r:KNOWS]->(t:Topic {id: $topicId})
	RETURN coalesce(r.level, 0.0) AS level
	`
	records, err := s.run(ctx, cypher, map[string]any{
		"legajo":  legajo,
		"topicId": topicID,
	})
	if err != nil {
		return 0.0, err
	}
	if len(records) == 0 {
		return 0.0, nil
	}
	return recordFloat(records[0], "level"), nil
}

// ApplyMasteryStep creates the KNOWS edge at 0.0 when absent and moves the
// level by step, clamped to [0,1]. The whole update is a single statement so
// concurrent grading of the same student+topic pair cannot lose updates.
func (s *Store) ApplyMasteryStep(ctx context.Context, legajo, topicID string, step float64) (float64, error) {
	cypher := `
	MERGE (s:Student {legajo: $legajo})
	WITH s
	MATCH (t:Topic {id: $topicId})
	MERGE (s)-[r:KNOWS]->(t)
	ON CREATE SET r.level = 0.0
	SET r.level = CASE
		WHEN r.level + $step < 0.0 THEN 0.0
		WHEN r.level + $step > 1.0 THEN 1.0
		ELSE r.level + $step
	END
	RETURN r.level AS level
	`
	records, err := s.run(ctx, cypher, map[string]any{
		"legajo":  legajo,
		"topicId": topicID,
		"step":    step,
	})
	if err != nil {
		return 0.0, err
	}
	if len(records) == 0 {
		return 0.0, ErrTopicMissing
	}
	return recordFloat(records[0], "level"), nil
}

func nullableTerm(term string) any {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	return term
}
