package agent

import (
	"context"
	"math"
	"sort"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
)

// levelWindow bounds the primary difficulty range around the student's level.
const levelWindow = 0.4

type selectorBackend interface {
	MasteryLevel(ctx context.Context, legajo, topicID string) (float64, error)
	TopicExercises(ctx context.Context, topicID string) ([]db.Exercise, error)
}

// Recommendation is the outcome of exercise selection for one topic.
type Recommendation struct {
	TopicID   string
	TopicName string
	Level     float64
	Exercises []db.Exercise
}

// ExerciseSelector picks exercises near the student's current mastery level,
// stretching upward when nothing near-level exists.
type ExerciseSelector struct {
	retriever *Retriever
	store     selectorBackend
}

func NewExerciseSelector(retriever *Retriever, store selectorBackend) *ExerciseSelector {
	return &ExerciseSelector{
		retriever: retriever,
		store:     store,
	}
}

// Recommend resolves topicText to the closest topic by similarity, reads the
// student's level for it (0.0 without an edge) and selects up to limit
// exercises.
func (s *ExerciseSelector) Recommend(ctx context.Context, legajo, topicText string, limit int) (*Recommendation, error) {
	hits, err := s.retriever.Search(ctx, db.KindTopic, topicText, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, ErrTopicNotFound
	}
	topic := hits[0]

	level, err := s.store.MasteryLevel(ctx, legajo, topic.ID)
	if err != nil {
		return nil, err
	}

	exercises, err := s.store.TopicExercises(ctx, topic.ID)
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		TopicID:   topic.ID,
		TopicName: topic.Payload.Name,
		Level:     level,
		Exercises: pickExercises(exercises, level, limit),
	}, nil
}

// pickExercises applies the selection rule: difficulties within
// [level-window, level+window] ordered by distance to the level; when that
// range is empty, difficulties strictly above the level ordered ascending —
// a student with no near-level material is stretched upward rather than
// given nothing.
func pickExercises(exercises []db.Exercise, level float64, limit int) []db.Exercise {
	lo := math.Max(0.0, level-levelWindow)
	hi := math.Min(1.0, level+levelWindow)

	var near []db.Exercise
	for _, ex := range exercises {
		if ex.Difficulty >= lo && ex.Difficulty <= hi {
			near = append(near, ex)
		}
	}

	if len(near) > 0 {
		sort.SliceStable(near, func(i, j int) bool {
			return math.Abs(near[i].Difficulty-level) < math.Abs(near[j].Difficulty-level)
		})
		return capAt(near, limit)
	}

	var above []db.Exercise
	for _, ex := range exercises {
		if ex.Difficulty > level {
			above = append(above, ex)
		}
	}
	sort.SliceStable(above, func(i, j int) bool {
		return above[i].Difficulty < above[j].Difficulty
	})
	return capAt(above, limit)
}

func capAt(exercises []db.Exercise, limit int) []db.Exercise {
	if limit > 0 && len(exercises) > limit {
		return exercises[:limit]
	}
	return exercises
}
