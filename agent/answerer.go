package agent

import (
	"context"
	"strings"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/prompts"
	"github.com/SaiNageswarS/go-collection-boot/linq"
)

// Answerer is the free-form retrieval-augmented answering capability, also
// the routing fallback when classification fails with nothing pending.
type Answerer struct {
	client    llm.LLMClient
	retriever *Retriever
}

func NewAnswerer(client llm.LLMClient, retriever *Retriever) *Answerer {
	return &Answerer{
		client:    client,
		retriever: retriever,
	}
}

func (a *Answerer) Answer(ctx context.Context, question string) (string, error) {
	sources, err := a.retriever.GatherSources(ctx, question, 5, 8, 8)
	if err != nil {
		return "", err
	}

	contextText := "No se encontró contexto."
	if len(sources) > 0 {
		parts, err := linq.Pipe2(
			linq.FromSlice(ctx, sources),
			linq.Select(func(src Source) string {
				if src.Kind == db.KindSection {
					return "Sección " + src.ID + "\n" + src.Content
				}
				return "Doc: " + src.Title + "\n" + src.Content
			}),
			linq.ToSlice[string](),
		)
		if err != nil {
			return "", err
		}
		contextText = strings.Join(parts, "\n\n")
	}

	prompt, err := prompts.RenderAnswerPrompt(prompts.AnswerPromptData{
		Question: question,
		Context:  contextText,
	})
	if err != nil {
		return "", err
	}

	response, err := generate(ctx, a.client, prompt, llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	titles, err := linq.Pipe3(
		linq.FromSlice(ctx, sources),
		linq.Select(func(src Source) string { return src.Title }),
		linq.Distinct(func(title string) string { return title }),
		linq.ToSlice[string](),
	)
	if err != nil {
		return "", err
	}
	if len(titles) > 0 {
		response += "\n\nFuente(s): " + strings.Join(titles, ", ")
	}
	return response, nil
}
