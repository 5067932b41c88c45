package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
)

type mockLLMClient struct {
	responses []string
	callCount int
	err       error
	model     string
}

func (m *mockLLMClient) GetModel() string {
	return m.model
}

func (m *mockLLMClient) GenerateInference(
	ctx context.Context,
	messages []llm.Message,
	callback func(string) error,
	options ...llm.LLMOption,
) error {
	if m.err != nil {
		return m.err
	}
	if m.callCount < len(m.responses) {
		response := m.responses[m.callCount]
		m.callCount++
		return callback(response)
	}
	return callback("")
}

// fakeEmbedder returns a canned vector per input, or a shared default.
type fakeEmbedder struct {
	vectors map[string][]float32
	fallbak []float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	if f.fallbak != nil {
		return f.fallbak, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) DetectDimension(ctx context.Context) (int, error) {
	vec, err := f.Embed(ctx, "dimension probe")
	if err != nil {
		return 0, err
	}
	return len(vec), nil
}

var errFakeStore = errors.New("fake store failure")

// fakeStore is an in-memory stand-in for the knowledge base. Only the fields
// a test populates matter; nil maps behave as empty data sets.
type fakeStore struct {
	scored      map[db.EntityKind][]db.ScoredID
	rows        map[db.EntityKind][]db.VectorRow
	payloads    map[db.EntityKind]map[string]db.Payload
	indexErr    error
	topics      []string
	levels      []db.TopicLevel
	level       float64
	exercises   []db.Exercise
	details     map[string]*db.ExerciseDetail
	activity    []db.TopicActivity
	answered    []recordedAnswer
	stepApplied []appliedStep
}

type recordedAnswer struct {
	legajo     string
	exerciseID string
	content    string
	confidence float64
}

type appliedStep struct {
	legajo  string
	topicID string
	step    float64
}

func (f *fakeStore) QueryNodesIndex(_ context.Context, kind db.EntityKind, _ []float32, k int) ([]db.ScoredID, error) {
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	scored := f.scored[kind]
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (f *fakeStore) VectorRows(_ context.Context, kind db.EntityKind) ([]db.VectorRow, error) {
	return f.rows[kind], nil
}

func (f *fakeStore) FetchPayloads(_ context.Context, kind db.EntityKind, ids []string) (map[string]db.Payload, error) {
	out := make(map[string]db.Payload, len(ids))
	for _, id := range ids {
		if payload, ok := f.payloads[kind][id]; ok {
			out[id] = payload
		}
	}
	return out, nil
}

func (f *fakeStore) TopicNames(_ context.Context) ([]string, error) {
	return f.topics, nil
}

func (f *fakeStore) MasteryLevels(_ context.Context, _, _ string) ([]db.TopicLevel, error) {
	return f.levels, nil
}

func (f *fakeStore) MasteryLevel(_ context.Context, _, _ string) (float64, error) {
	return f.level, nil
}

func (f *fakeStore) ApplyMasteryStep(_ context.Context, legajo, topicID string, step float64) (float64, error) {
	f.stepApplied = append(f.stepApplied, appliedStep{legajo: legajo, topicID: topicID, step: step})
	f.level = clamp01(f.level + step)
	return f.level, nil
}

func (f *fakeStore) TopicExercises(_ context.Context, _ string) ([]db.Exercise, error) {
	return f.exercises, nil
}

func (f *fakeStore) ExerciseWithTopic(_ context.Context, exerciseID string) (*db.ExerciseDetail, error) {
	return f.details[exerciseID], nil
}

func (f *fakeStore) RecordAnswer(_ context.Context, legajo, exerciseID, _, content string, confidence float64) error {
	f.answered = append(f.answered, recordedAnswer{
		legajo:     legajo,
		exerciseID: exerciseID,
		content:    content,
		confidence: confidence,
	})
	return nil
}

func (f *fakeStore) TopicActivitySummary(_ context.Context, _, _ string) ([]db.TopicActivity, error) {
	return f.activity, nil
}

func toolJSON(tool, input string) string {
	return fmt.Sprintf(`{"tool": %q, "input": %q}`, tool, input)
}
