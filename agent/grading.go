package agent

import (
	"context"
	"fmt"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
	"github.com/google/uuid"
)

type gradingBackend interface {
	ExerciseWithTopic(ctx context.Context, exerciseID string) (*db.ExerciseDetail, error)
	RecordAnswer(ctx context.Context, legajo, exerciseID, answerID, content string, confidence float64) error
}

// GradeResult reports one graded answer.
type GradeResult struct {
	Confidence float64
	NewLevel   float64
	TopicID    string
}

// GradingService scores free-text answers against the exercise's reference
// answer, persists the attempt and feeds the mastery update.
type GradingService struct {
	embedder llm.Embedder
	store    gradingBackend
	mastery  *MasteryStore
}

func NewGradingService(embedder llm.Embedder, store gradingBackend, mastery *MasteryStore) *GradingService {
	return &GradingService{
		embedder: embedder,
		store:    store,
		mastery:  mastery,
	}
}

// Grade computes confidence as the clamped cosine similarity between the
// answer embedding and the reference-answer embedding. Without a reference
// answer, confidence is 0.0: ungraded material cannot yield a positive
// signal. The answer record is persisted before the mastery update runs.
func (g *GradingService) Grade(ctx context.Context, legajo, exerciseID, answerText string) (*GradeResult, error) {
	detail, err := g.store.ExerciseWithTopic(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrExerciseNotFound
	}

	confidence := 0.0
	if detail.Answer != "" {
		answerVec, err := g.embedder.Embed(ctx, answerText)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
		}
		referenceVec, err := g.embedder.Embed(ctx, detail.Answer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
		}
		confidence = clamp01(Cosine(answerVec, referenceVec))
	}

	if err := g.store.RecordAnswer(ctx, legajo, exerciseID, uuid.NewString(), answerText, confidence); err != nil {
		return nil, err
	}

	newLevel, err := g.mastery.Update(ctx, legajo, detail.TopicID, confidence)
	if err != nil {
		return nil, err
	}

	return &GradeResult{
		Confidence: confidence,
		NewLevel:   newLevel,
		TopicID:    detail.TopicID,
	}, nil
}
