package db

import (
	"context"
)

// Exercise is one practice exercise as shown to the student.
type Exercise struct {
	ID         string
	Task       string
	Difficulty float64
}

// ExerciseDetail carries the grading-side view of an exercise: the reference
// answer (may be empty) and the topic it belongs to.
type ExerciseDetail struct {
	ID      string
	Answer  string
	TopicID string
}

// TopicExercises fetches every exercise of a topic with its difficulty.
// Selection near the student's level happens in the exercise selector.
func (s *Store) TopicExercises(ctx context.Context, topicID string) ([]Exercise, error) {
	cypher := `
	MATCH (t:Topic {id: $topicId})<-[:BELONGS_TO]-(e:Exercise)
	RETURN e.id AS id, e.task AS task, toFloat(e.difficulty) AS difficulty
	ORDER BY id
	`
	records, err := s.run(ctx, cypher, map[string]any{"topicId": topicID})
	if err != nil {
		return nil, err
	}

	exercises := make([]Exercise, 0, len(records))
	for _, record := range records {
		exercises = append(exercises, Exercise{
			ID:         recordString(record, "id"),
			Task:       recordString(record, "task"),
			Difficulty: recordFloat(record, "difficulty"),
		})
	}
	return exercises, nil
}

// ExerciseWithTopic fetches the exercise and its topic edge. Returns nil when
// either is missing.
func (s *Store) ExerciseWithTopic(ctx context.Context, exerciseID string) (*ExerciseDetail, error) {
	cypher := `
	MATCH (e:Exercise {id: $exerciseId})-[:BELONGS_TO]->(t:Topic)
	RETURN e.id AS id, e.answer AS answer, t.id AS topicId
	`
	records, err := s.run(ctx, cypher, map[string]any{"exerciseId": exerciseID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	return &ExerciseDetail{
		ID:      recordString(records[0], "id"),
		Answer:  recordString(records[0], "answer"),
		TopicID: recordString(records[0], "topicId"),
	}, nil
}
