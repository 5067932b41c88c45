package agent

import (
	"context"
	"strings"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
)

// generate runs one blocking inference and accumulates the streamed chunks.
func generate(ctx context.Context, client llm.LLMClient, userPrompt string, opts ...llm.LLMOption) (string, error) {
	messages := []llm.Message{
		{Role: "user", Content: userPrompt},
	}

	var response strings.Builder
	err := client.GenerateInference(ctx, messages, func(chunk string) error {
		response.WriteString(chunk)
		return nil
	}, opts...)

	return response.String(), err
}
