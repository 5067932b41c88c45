package prompts

type SummaryPromptData struct {
	Query   string
	Sources []SourceBlock
}

type ValidatorPromptData struct {
	Query   string
	Sources []SourceBlock
	Draft   string
}

type RegeneratePromptData struct {
	Query    string
	Sources  []SourceBlock
	Draft    string
	Feedback string
}

func RenderSummaryPrompt(data SummaryPromptData) (string, error) {
	return loadPrompt("templates/summarize.md", data)
}

// RenderValidatorPrompt builds the verdict prompt; the caller parses the
// JSON {"valid": ..., "feedback": ...} defensively and fails open.
func RenderValidatorPrompt(data ValidatorPromptData) (string, error) {
	return loadPrompt("templates/validate.md", data)
}

func RenderRegeneratePrompt(data RegeneratePromptData) (string, error) {
	return loadPrompt("templates/regenerate.md", data)
}
