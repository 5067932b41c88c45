package agent

import "errors"

var (
	// ErrEmbeddingUnavailable marks a failed or timed-out embedding call.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrTopicNotFound marks a topic resolution that produced no candidate.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrExerciseNotFound marks a grading request for a missing exercise or
	// an exercise with no topic edge.
	ErrExerciseNotFound = errors.New("exercise not found")
)
