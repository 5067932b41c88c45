package db

import (
	"context"
	"fmt"
	"time"
)

// CorrectnessThreshold is the single boundary deciding whether an answer
// counts as correct. Confidence must be strictly above it; exactly 0.7 is
// incorrect. The mastery step direction, the correct/incorrect label and the
// correctness-rate aggregation all share this constant.
const CorrectnessThreshold = 0.7

// RecordAnswer persists an immutable answer record linked to the exercise and
// to the day's study session for the student. One StudySession exists per
// (student, calendar day); it is created on the first answer of the day.
func (s *Store) RecordAnswer(ctx context.Context, legajo, exerciseID, answerID, content string, confidence float64) error {
	cypher := `
	MERGE (s:Student {legajo: $legajo})
	WITH s
	MATCH (e:Exercise {id: $exerciseId})-[:BELONGS_TO]->(t:Topic)
	CREATE (a:Answer {id: $answerId, content: $content, confidence: $confidence})
	CREATE (a)-[:ANSWERS]->(e)
	MERGE (s)-[:HAS_SESSION]->(ss:StudySession {id: $sessionId})
	ON CREATE SET ss.startedAt = datetime()
	MERGE (ss)-[:CONSULTED_TOPIC]->(t)
	CREATE (ss)-[:HAS_ANSWER]->(a)
	RETURN a.id AS id
	`
	_, err := s.run(ctx, cypher, map[string]any{
		"legajo":     legajo,
		"exerciseId": exerciseID,
		"answerId":   answerID,
		"content":    content,
		"confidence": confidence,
		"sessionId":  studySessionID(legajo, time.Now()),
	})
	return err
}

// studySessionID keys the session to the calendar day, mirroring the
// one-session-per-day grouping.
func studySessionID(legajo string, now time.Time) string {
	return fmt.Sprintf("%s-%s", now.Format("2006-01-02"), legajo)
}
