package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/prompts"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"go.uber.org/zap"
)

const (
	insufficientMaterial = "No encontré material suficiente para un resumen."
	regenerationNote     = "Nota: este resumen se regeneró tras una verificación adicional; podría contener imprecisiones."
)

// Summarizer drafts a grounded topic summary, validates it against the
// sources and regenerates at most once. The single-regeneration bound keeps
// latency and cost deterministic.
type Summarizer struct {
	client    llm.LLMClient
	retriever *Retriever
}

func NewSummarizer(client llm.LLMClient, retriever *Retriever) *Summarizer {
	return &Summarizer{
		client:    client,
		retriever: retriever,
	}
}

type verdict struct {
	Valid    bool
	Feedback string
}

func (s *Summarizer) Summarize(ctx context.Context, query string, maxSources int) (string, error) {
	sources, err := s.retriever.GatherSources(ctx, query, 5, 8, maxSources)
	if err != nil {
		return "", err
	}
	if len(sources) == 0 {
		return insufficientMaterial, nil
	}

	blocks := sourceBlocks(sources)

	summaryPrompt, err := prompts.RenderSummaryPrompt(prompts.SummaryPromptData{
		Query:   query,
		Sources: blocks,
	})
	if err != nil {
		return "", err
	}

	draft, err := generate(ctx, s.client, summaryPrompt, llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	titleList, err := linq.Pipe2(
		linq.FromSlice(ctx, sources),
		linq.Select(func(src Source) string { return src.Title }),
		linq.ToSlice[string](),
	)
	if err != nil {
		return "", err
	}
	titles := strings.Join(titleList, ", ")

	result := s.validate(ctx, query, blocks, draft)
	if result.Valid {
		return draft + "\n\nFuentes: " + titles, nil
	}

	feedback := result.Feedback
	if feedback == "" {
		feedback = "Mejora claridad y fundamentación en las fuentes."
	}

	regeneratePrompt, err := prompts.RenderRegeneratePrompt(prompts.RegeneratePromptData{
		Query:    query,
		Sources:  blocks,
		Draft:    draft,
		Feedback: feedback,
	})
	if err != nil {
		return "", err
	}

	regenerated, err := generate(ctx, s.client, regeneratePrompt, llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	return regenerated + "\n\nFuentes: " + titles + "\n" + regenerationNote, nil
}

// validate runs the verdict pass. Anything unusable, an inference failure, a
// missing JSON span or a verdict without a boolean, counts as valid: the
// pipeline fails open to guarantee termination.
func (s *Summarizer) validate(ctx context.Context, query string, blocks []prompts.SourceBlock, draft string) verdict {
	validatorPrompt, err := prompts.RenderValidatorPrompt(prompts.ValidatorPromptData{
		Query:   query,
		Sources: blocks,
		Draft:   draft,
	})
	if err != nil {
		return verdict{Valid: true}
	}

	raw, err := generate(ctx, s.client, validatorPrompt, llm.WithTemperature(0.2))
	if err != nil {
		logger.Error("Summary validation failed, keeping draft", zap.Error(err))
		return verdict{Valid: true}
	}

	span := firstJSONSpan(raw)
	if span == "" {
		return verdict{Valid: true}
	}

	var payload struct {
		Valid    *bool  `json:"valid"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil || payload.Valid == nil {
		return verdict{Valid: true}
	}

	return verdict{
		Valid:    *payload.Valid,
		Feedback: strings.TrimSpace(payload.Feedback),
	}
}

func sourceBlocks(sources []Source) []prompts.SourceBlock {
	blocks := make([]prompts.SourceBlock, 0, len(sources))
	for i, src := range sources {
		blocks = append(blocks, prompts.SourceBlock{
			Index:   i + 1,
			Title:   src.Title,
			Content: src.Content,
		})
	}
	return blocks
}
