package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retrieverWithSections(sections map[string]string) *Retriever {
	scored := make([]db.ScoredID, 0, len(sections))
	payloads := make(map[string]db.Payload, len(sections))
	score := 0.9
	for id, content := range sections {
		scored = append(scored, db.ScoredID{ID: id, Score: score})
		payloads[id] = db.Payload{ID: id, Content: content, ParentName: "Apunte " + id}
		score -= 0.1
	}
	store := &fakeStore{
		scored:   map[db.EntityKind][]db.ScoredID{db.KindSection: scored},
		payloads: map[db.EntityKind]map[string]db.Payload{db.KindSection: payloads},
	}
	return NewRetriever(&fakeEmbedder{}, store)
}

func TestSummarizeWithoutSources(t *testing.T) {
	client := &mockLLMClient{}
	summarizer := NewSummarizer(client, NewRetriever(&fakeEmbedder{}, &fakeStore{}))

	result, err := summarizer.Summarize(context.Background(), "tema fantasma", 8)
	require.NoError(t, err)
	assert.Equal(t, insufficientMaterial, result)
	assert.Equal(t, 0, client.callCount)
}

func TestSummarizeValidDraftKeepsDraftAndCitesSources(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		"Resumen del tema.",
		`{"valid": true}`,
	}}
	summarizer := NewSummarizer(client, retrieverWithSections(map[string]string{"s1": "contenido"}))

	result, err := summarizer.Summarize(context.Background(), "punteros", 8)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result, "Resumen del tema."))
	assert.Contains(t, result, "Fuentes: Apunte s1")
	assert.NotContains(t, result, regenerationNote)
	assert.Equal(t, 2, client.callCount)
}

func TestSummarizeInvalidDraftRegeneratesOnce(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		"Borrador flojo.",
		`{"valid": false, "feedback": "faltan fuentes"}`,
		"Resumen corregido.",
	}}
	summarizer := NewSummarizer(client, retrieverWithSections(map[string]string{"s1": "contenido"}))

	result, err := summarizer.Summarize(context.Background(), "punteros", 8)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result, "Resumen corregido."))
	assert.Contains(t, result, regenerationNote)
	// Draft, verdict, regeneration: the regenerated text is never re-validated.
	assert.Equal(t, 3, client.callCount)
}

func TestSummarizeValidatorGarbageFailsOpen(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		"Resumen del tema.",
		"esto no es JSON",
	}}
	summarizer := NewSummarizer(client, retrieverWithSections(map[string]string{"s1": "contenido"}))

	result, err := summarizer.Summarize(context.Background(), "punteros", 8)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result, "Resumen del tema."))
	assert.NotContains(t, result, regenerationNote)
}

func TestSummarizeValidatorMissingBooleanFailsOpen(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		"Resumen del tema.",
		`{"feedback": "sin veredicto"}`,
	}}
	summarizer := NewSummarizer(client, retrieverWithSections(map[string]string{"s1": "contenido"}))

	result, err := summarizer.Summarize(context.Background(), "punteros", 8)
	require.NoError(t, err)
	assert.NotContains(t, result, regenerationNote)
}

func TestAnswerCitesDistinctSources(t *testing.T) {
	client := &mockLLMClient{responses: []string{"Una respuesta fundamentada."}}
	answerer := NewAnswerer(client, retrieverWithSections(map[string]string{"s1": "contenido"}))

	result, err := answerer.Answer(context.Background(), "¿qué es un puntero?")
	require.NoError(t, err)
	assert.Contains(t, result, "Una respuesta fundamentada.")
	assert.Contains(t, result, "Fuente(s): Apunte s1")
}

func TestAnswerDeduplicatesSourceTitles(t *testing.T) {
	// Two sections of the same document share its title; the citation line
	// must name it once.
	store := &fakeStore{
		scored: map[db.EntityKind][]db.ScoredID{
			db.KindSection: {
				{ID: "s1", Score: 0.9},
				{ID: "s2", Score: 0.8},
			},
		},
		payloads: map[db.EntityKind]map[string]db.Payload{
			db.KindSection: {
				"s1": {ID: "s1", Content: "uno", ParentID: "d1", ParentName: "Apunte único"},
				"s2": {ID: "s2", Content: "dos", ParentID: "d1", ParentName: "Apunte único"},
			},
		},
	}
	client := &mockLLMClient{responses: []string{"Respuesta."}}
	answerer := NewAnswerer(client, NewRetriever(&fakeEmbedder{}, store))

	result, err := answerer.Answer(context.Background(), "¿pregunta?")
	require.NoError(t, err)
	assert.Contains(t, result, "Fuente(s): Apunte único")
	assert.Equal(t, 1, strings.Count(result, "Apunte único"))
}

func TestAnswerWithoutSourcesStillAnswers(t *testing.T) {
	client := &mockLLMClient{responses: []string{"No tengo material sobre eso."}}
	answerer := NewAnswerer(client, NewRetriever(&fakeEmbedder{}, &fakeStore{}))

	result, err := answerer.Answer(context.Background(), "¿qué es un quark?")
	require.NoError(t, err)
	assert.Equal(t, "No tengo material sobre eso.", result)
}
