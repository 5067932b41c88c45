package agent

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"go.uber.org/zap"
)

// retrieverStore is the slice of the knowledge base the retriever needs.
type retrieverStore interface {
	QueryNodesIndex(ctx context.Context, kind db.EntityKind, vector []float32, k int) ([]db.ScoredID, error)
	VectorRows(ctx context.Context, kind db.EntityKind) ([]db.VectorRow, error)
	FetchPayloads(ctx context.Context, kind db.EntityKind, ids []string) (map[string]db.Payload, error)
}

// Hit is one ranked, hydrated search result.
type Hit struct {
	ID      string
	Score   float64
	Payload db.Payload
}

// Source is a grounding unit for generated answers and summaries.
type Source struct {
	Kind    db.EntityKind
	ID      string
	Title   string
	Content string
	Score   float64
}

// nearestSearcher is the similarity strategy: one interface, two
// implementations, selected once by a startup probe and cached for the
// process lifetime.
type nearestSearcher interface {
	nearest(ctx context.Context, kind db.EntityKind, vector []float32, k int) ([]db.ScoredID, error)
}

// indexSearcher delegates to the backend's native vector index.
type indexSearcher struct {
	store retrieverStore
}

func (s *indexSearcher) nearest(ctx context.Context, kind db.EntityKind, vector []float32, k int) ([]db.ScoredID, error) {
	return s.store.QueryNodesIndex(ctx, kind, vector, k)
}

// bruteSearcher fetches every stored vector of the kind and ranks by cosine
// similarity in-process. Ties keep stable input order.
type bruteSearcher struct {
	store retrieverStore
}

func (s *bruteSearcher) nearest(ctx context.Context, kind db.EntityKind, vector []float32, k int) ([]db.ScoredID, error) {
	rows, err := s.store.VectorRows(ctx, kind)
	if err != nil {
		return nil, err
	}

	type entry struct {
		id    string
		score float64
		seq   int
	}

	// Min-heap keeps the best k; for equal scores the later entry is popped
	// first, so survivors preserve input order.
	h := ds.NewMinHeap(func(a, b entry) bool {
		if a.score != b.score {
			return a.score < b.score
		}
		return a.seq > b.seq
	})

	for i, row := range rows {
		h.Push(entry{id: row.ID, score: Cosine(vector, row.Vector), seq: i})
		if h.Len() > k {
			h.Pop()
		}
	}

	ordered := h.ToSortedSlice()
	slices.Reverse(ordered) // highest score first

	return linq.Pipe2(
		linq.FromSlice(ctx, ordered),
		linq.Select(func(e entry) db.ScoredID {
			return db.ScoredID{ID: e.id, Score: e.score}
		}),
		linq.ToSlice[db.ScoredID](),
	)
}

// Retriever embeds the query and runs the two-phase similarity search: a
// cheap id+score pass, then payload hydration for the survivors only.
type Retriever struct {
	embedder llm.Embedder
	store    retrieverStore
	searcher nearestSearcher
}

func NewRetriever(embedder llm.Embedder, store retrieverStore) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		searcher: &indexSearcher{store: store},
	}
}

// UseIndex pins the native-index strategy.
func (r *Retriever) UseIndex() { r.searcher = &indexSearcher{store: r.store} }

// UseBruteForce pins in-process cosine ranking.
func (r *Retriever) UseBruteForce() { r.searcher = &bruteSearcher{store: r.store} }

// ProbeStrategy attempts one native vector query and caches the result as the
// process-lifetime strategy, instead of falling back per call.
func (r *Retriever) ProbeStrategy(ctx context.Context) {
	vec, err := r.embedder.Embed(ctx, "capability probe")
	if err != nil {
		logger.Error("Strategy probe could not embed, keeping native index", zap.Error(err))
		r.UseIndex()
		return
	}

	if _, err := r.store.QueryNodesIndex(ctx, db.KindTopic, vec, 1); err != nil {
		logger.Info("Native vector queries unsupported, using in-process cosine", zap.Error(err))
		r.UseBruteForce()
		return
	}
	r.UseIndex()
}

// Search returns up to topK hits for the query, ranked by similarity score
// descending, hydrated in score order.
func (r *Retriever) Search(ctx context.Context, kind db.EntityKind, query string, topK int) ([]Hit, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	scored, err := r.searcher.nearest(ctx, kind, vector, topK)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	ids, err := linq.Pipe2(
		linq.FromSlice(ctx, scored),
		linq.Select(func(s db.ScoredID) string { return s.ID }),
		linq.ToSlice[string](),
	)
	if err != nil {
		return nil, err
	}

	payloads, err := r.store.FetchPayloads(ctx, kind, ids)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(scored))
	for _, s := range scored {
		payload, ok := payloads[s.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{ID: s.ID, Score: s.Score, Payload: payload})
	}
	return hits, nil
}

// GatherSources merges section and document hits into one ranked source list.
// When a section and its parent document both match, the section wins: it is
// the more specific grounding unit.
func (r *Retriever) GatherSources(ctx context.Context, query string, kDocs, kSections, maxSources int) ([]Source, error) {
	sectionHits, err := r.Search(ctx, db.KindSection, query, kSections)
	if err != nil {
		return nil, err
	}

	documentHits, err := r.Search(ctx, db.KindDocument, query, kDocs)
	if err != nil {
		return nil, err
	}

	matchedParents := make(map[string]bool, len(sectionHits))
	for _, hit := range sectionHits {
		if hit.Payload.ParentID != "" {
			matchedParents[hit.Payload.ParentID] = true
		}
	}

	sources := make([]Source, 0, len(sectionHits)+len(documentHits))
	for _, hit := range sectionHits {
		if hit.Payload.Content == "" {
			continue
		}
		title := hit.Payload.ParentName
		if title == "" {
			title = "Sección " + hit.ID
		}
		sources = append(sources, Source{
			Kind:    db.KindSection,
			ID:      hit.ID,
			Title:   title,
			Content: hit.Payload.Content,
			Score:   hit.Score,
		})
	}

	for _, hit := range documentHits {
		if matchedParents[hit.ID] || hit.Payload.Content == "" {
			continue
		}
		title := hit.Payload.Name
		if title == "" {
			title = "Documento " + hit.ID
		}
		sources = append(sources, Source{
			Kind:    db.KindDocument,
			ID:      hit.ID,
			Title:   title,
			Content: hit.Payload.Content,
			Score:   hit.Score,
		})
	}

	sort.SliceStable(sources, func(i, j int) bool { return sources[i].Score > sources[j].Score })
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}
	return sources, nil
}
