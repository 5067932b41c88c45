package db

import (
	"context"
)

// TopicActivity aggregates a student's study activity for one topic.
type TopicActivity struct {
	TopicID         string
	Name            string
	Sessions        int64
	Answers         int64
	AvgConfidence   float64
	CorrectnessRate float64
	LastActivity    string
}

// TopicActivitySummary aggregates per-topic session stats for the student:
// session and answer counts, mean confidence, correctness rate and last
// activity, ordered by sessions then answers descending.
func (s *Store) TopicActivitySummary(ctx context.Context, legajo, term string) ([]TopicActivity, error) {
	cypher := `
	MATCH (s:Student {legajo: $legajo})-[:HAS_SESSION]->(ss:StudySession)
	MATCH (ss)-[:CONSULTED_TOPIC]->(t:Topic)
	WHERE $term IS NULL OR t.id = $term OR toLower(t.nombre) = toLower($term)
	OPTIONAL MATCH (ss)-[:HAS_ANSWER]->(a:Answer)-[:ANSWERS]->(:Exercise)-[:BELONGS_TO]->(t)
	RETURN t.id AS topicId, t.nombre AS nombre,
	       count(DISTINCT ss) AS sessions,
	       count(a) AS answers,
	       coalesce(avg(a.confidence), 0.0) AS avgConf,
	       coalesce(avg(CASE WHEN a.confidence > $threshold THEN 1.0 ELSE 0.0 END), 0.0) AS correctnessRate,
	       toString(coalesce(max(ss.startedAt), datetime())) AS lastActivity
	ORDER BY sessions DESC, answers DESC
	`
	records, err := s.run(ctx, cypher, map[string]any{
		"legajo":    legajo,
		"term":      nullableTerm(term),
		"threshold": CorrectnessThreshold,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]TopicActivity, 0, len(records))
	for _, record := range records {
		rows = append(rows, TopicActivity{
			TopicID:         recordString(record, "topicId"),
			Name:            recordString(record, "nombre"),
			Sessions:        recordInt(record, "sessions"),
			Answers:         recordInt(record, "answers"),
			AvgConfidence:   recordFloat(record, "avgConf"),
			CorrectnessRate: recordFloat(record, "correctnessRate"),
			LastActivity:    recordString(record, "lastActivity"),
		})
	}
	return rows, nil
}
