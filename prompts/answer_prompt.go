package prompts

type AnswerPromptData struct {
	Question string
	Context  string
}

// RenderAnswerPrompt builds the retrieval-augmented answering prompt.
func RenderAnswerPrompt(data AnswerPromptData) (string, error) {
	return loadPrompt("templates/rag_answer.md", data)
}
