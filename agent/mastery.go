package agent

import (
	"context"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
)

const (
	masteryGain    = 0.5
	masteryPenalty = 0.3
)

// masteryStep returns the level delta for a graded answer. The rule is a
// fixed-step reinforcement: confidence only gates the direction, never the
// magnitude.
func masteryStep(confidence float64) float64 {
	if IsCorrect(confidence) {
		return masteryGain
	}
	return -masteryPenalty
}

// nextLevel is the pure form of the update rule: clamp(level + step, 0, 1).
func nextLevel(level, confidence float64) float64 {
	return clamp01(level + masteryStep(confidence))
}

// IsCorrect applies the single correctness boundary: strictly above the
// threshold, never at it.
func IsCorrect(confidence float64) bool {
	return confidence > db.CorrectnessThreshold
}

type masteryBackend interface {
	MasteryLevels(ctx context.Context, legajo, term string) ([]db.TopicLevel, error)
	ApplyMasteryStep(ctx context.Context, legajo, topicID string, step float64) (float64, error)
}

// MasteryStore reads and updates the per-student, per-topic mastery edges.
type MasteryStore struct {
	store masteryBackend
}

func NewMasteryStore(store masteryBackend) *MasteryStore {
	return &MasteryStore{store: store}
}

// Get lists (topic, level) pairs for the student, filtered by exact id or
// case-insensitive name when term is non-empty, sorted by level descending.
func (m *MasteryStore) Get(ctx context.Context, legajo, term string) ([]db.TopicLevel, error) {
	return m.store.MasteryLevels(ctx, legajo, term)
}

// Update applies the reinforcement step for one graded answer and returns the
// new level. The edge is created at 0.0 when absent.
func (m *MasteryStore) Update(ctx context.Context, legajo, topicID string, confidence float64) (float64, error) {
	return m.store.ApplyMasteryStep(ctx, legajo, topicID, masteryStep(confidence))
}
