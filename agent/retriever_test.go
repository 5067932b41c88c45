package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBruteSearcherRanksByCosine(t *testing.T) {
	store := &fakeStore{
		rows: map[db.EntityKind][]db.VectorRow{
			db.KindTopic: {
				{ID: "far", Vector: []float32{0, 1, 0}},
				{ID: "close", Vector: []float32{1, 0.1, 0}},
				{ID: "exact", Vector: []float32{1, 0, 0}},
			},
		},
	}
	searcher := &bruteSearcher{store: store}

	scored, err := searcher.nearest(context.Background(), db.KindTopic, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "exact", scored[0].ID)
	assert.Equal(t, "close", scored[1].ID)
}

func TestBruteSearcherStableOnTies(t *testing.T) {
	store := &fakeStore{
		rows: map[db.EntityKind][]db.VectorRow{
			db.KindTopic: {
				{ID: "first", Vector: []float32{1, 0}},
				{ID: "second", Vector: []float32{1, 0}},
				{ID: "third", Vector: []float32{1, 0}},
			},
		},
	}
	searcher := &bruteSearcher{store: store}

	scored, err := searcher.nearest(context.Background(), db.KindTopic, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "first", scored[0].ID)
	assert.Equal(t, "second", scored[1].ID)
}

func TestSearchHydratesInScoreOrderSkippingMissing(t *testing.T) {
	store := &fakeStore{
		scored: map[db.EntityKind][]db.ScoredID{
			db.KindSection: {
				{ID: "s1", Score: 0.9},
				{ID: "gone", Score: 0.8},
				{ID: "s2", Score: 0.7},
			},
		},
		payloads: map[db.EntityKind]map[string]db.Payload{
			db.KindSection: {
				"s1": {ID: "s1", Content: "uno"},
				"s2": {ID: "s2", Content: "dos"},
			},
		},
	}
	retriever := NewRetriever(&fakeEmbedder{}, store)

	hits, err := retriever.Search(context.Background(), db.KindSection, "query", 3)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "s1", hits[0].ID)
	assert.Equal(t, "s2", hits[1].ID)
	assert.Equal(t, "dos", hits[1].Payload.Content)
}

func TestSearchWrapsEmbeddingFailure(t *testing.T) {
	retriever := NewRetriever(&fakeEmbedder{err: errors.New("down")}, &fakeStore{})

	_, err := retriever.Search(context.Background(), db.KindTopic, "query", 3)
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestGatherSourcesPrefersSectionOverParentDocument(t *testing.T) {
	store := &fakeStore{
		scored: map[db.EntityKind][]db.ScoredID{
			db.KindSection: {{ID: "s1", Score: 0.9}},
			db.KindDocument: {
				{ID: "d1", Score: 0.95},
				{ID: "d2", Score: 0.5},
			},
		},
		payloads: map[db.EntityKind]map[string]db.Payload{
			db.KindSection: {
				"s1": {ID: "s1", Content: "detalle", ParentID: "d1", ParentName: "Apunte 1"},
			},
			db.KindDocument: {
				"d1": {ID: "d1", Name: "Apunte 1", Content: "todo el apunte"},
				"d2": {ID: "d2", Name: "Apunte 2", Content: "otro apunte"},
			},
		},
	}
	retriever := NewRetriever(&fakeEmbedder{}, store)

	sources, err := retriever.GatherSources(context.Background(), "query", 5, 8, 10)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	// d1 is excluded because its section matched; d2 survives.
	assert.Equal(t, db.KindSection, sources[0].Kind)
	assert.Equal(t, "Apunte 1", sources[0].Title)
	assert.Equal(t, "d2", sources[1].ID)
}

func TestGatherSourcesSkipsEmptyContentAndCaps(t *testing.T) {
	store := &fakeStore{
		scored: map[db.EntityKind][]db.ScoredID{
			db.KindSection: {
				{ID: "s1", Score: 0.9},
				{ID: "s2", Score: 0.8},
				{ID: "s3", Score: 0.7},
			},
		},
		payloads: map[db.EntityKind]map[string]db.Payload{
			db.KindSection: {
				"s1": {ID: "s1", Content: "uno"},
				"s2": {ID: "s2", Content: ""},
				"s3": {ID: "s3", Content: "tres"},
			},
		},
	}
	retriever := NewRetriever(&fakeEmbedder{}, store)

	sources, err := retriever.GatherSources(context.Background(), "query", 5, 8, 1)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "s1", sources[0].ID)
}

func TestProbeStrategyFallsBackToBruteForce(t *testing.T) {
	store := &fakeStore{indexErr: errors.New("Unknown procedure db.index.vector.queryNodes")}
	retriever := NewRetriever(&fakeEmbedder{}, store)

	retriever.ProbeStrategy(context.Background())
	_, ok := retriever.searcher.(*bruteSearcher)
	assert.True(t, ok)
}

func TestProbeStrategyKeepsIndexWhenSupported(t *testing.T) {
	retriever := NewRetriever(&fakeEmbedder{}, &fakeStore{})

	retriever.ProbeStrategy(context.Background())
	_, ok := retriever.searcher.(*indexSearcher)
	assert.True(t, ok)
}
