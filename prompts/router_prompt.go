package prompts

// RouterPromptData feeds the capability-classification prompt: the catalogue
// and worked examples live in the template; history lines and known topic
// names are injected per turn.
type RouterPromptData struct {
	Legajo       string
	ContextLines []string
	Topics       string // comma-joined known topic names, empty when unknown
	UserText     string
}

func RenderRouterPrompt(data RouterPromptData) (systemPrompt, userPrompt string, err error) {
	systemPrompt, err = loadPrompt("templates/router_system.md", data)
	if err != nil {
		return "", "", err
	}

	userPrompt, err = loadPrompt("templates/router_user.md", data)
	if err != nil {
		return "", "", err
	}

	return systemPrompt, userPrompt, nil
}
