package agent

import (
	"context"
	"testing"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercisesByDifficulty(difficulties ...float64) []db.Exercise {
	out := make([]db.Exercise, 0, len(difficulties))
	for i, d := range difficulties {
		out = append(out, db.Exercise{
			ID:         string(rune('a' + i)),
			Task:       "tarea",
			Difficulty: d,
		})
	}
	return out
}

func TestPickExercisesOrdersByDistanceToLevel(t *testing.T) {
	picked := pickExercises(exercisesByDifficulty(0.1, 0.5, 0.9), 0.5, 0)

	require.Len(t, picked, 3)
	assert.Equal(t, 0.5, picked[0].Difficulty)
	// 0.1 and 0.9 are equidistant; stable sort keeps input order.
	assert.Equal(t, 0.1, picked[1].Difficulty)
	assert.Equal(t, 0.9, picked[2].Difficulty)
}

func TestPickExercisesFallsBackToAboveLevel(t *testing.T) {
	// Nothing within the window around 0.1; the student is stretched upward.
	picked := pickExercises(exercisesByDifficulty(0.9, 0.6, 0.8), 0.1, 0)

	require.Len(t, picked, 3)
	assert.Equal(t, 0.6, picked[0].Difficulty)
	assert.Equal(t, 0.8, picked[1].Difficulty)
	assert.Equal(t, 0.9, picked[2].Difficulty)
}

func TestPickExercisesEmptyWhenNothingAbove(t *testing.T) {
	picked := pickExercises(exercisesByDifficulty(0.1, 0.2), 0.9, 0)
	assert.Empty(t, picked)
}

func TestPickExercisesHonorsLimit(t *testing.T) {
	picked := pickExercises(exercisesByDifficulty(0.5, 0.55, 0.45, 0.6), 0.5, 2)
	assert.Len(t, picked, 2)
}

func TestRecommendUnknownTopic(t *testing.T) {
	store := &fakeStore{}
	retriever := NewRetriever(&fakeEmbedder{}, store)
	selector := NewExerciseSelector(retriever, store)

	_, err := selector.Recommend(context.Background(), "12345", "tema inexistente", 3)
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestRecommendResolvesTopicAndLevel(t *testing.T) {
	store := &fakeStore{
		scored: map[db.EntityKind][]db.ScoredID{
			db.KindTopic: {{ID: "t1", Score: 0.95}},
		},
		payloads: map[db.EntityKind]map[string]db.Payload{
			db.KindTopic: {"t1": {ID: "t1", Name: "Punteros"}},
		},
		level:     0.5,
		exercises: exercisesByDifficulty(0.4, 0.9),
	}
	retriever := NewRetriever(&fakeEmbedder{}, store)
	selector := NewExerciseSelector(retriever, store)

	rec, err := selector.Recommend(context.Background(), "12345", "punteros", 3)
	require.NoError(t, err)
	assert.Equal(t, "t1", rec.TopicID)
	assert.Equal(t, "Punteros", rec.TopicName)
	assert.Equal(t, 0.5, rec.Level)
	require.Len(t, rec.Exercises, 2)
	assert.Equal(t, 0.4, rec.Exercises[0].Difficulty)
}
