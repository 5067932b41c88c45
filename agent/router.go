package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/llm"
	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/prompts"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// Capability is the closed set of actions the router can select. Dispatch is
// an exhaustive switch, not a string-keyed map.
type Capability int

const (
	CapabilityRetrieveDocs Capability = iota
	CapabilityKnowledgeReport
	CapabilityTopicSummary
	CapabilityRecommendExercises
	CapabilityAskExercise
	CapabilityGradePending
	CapabilityGradeExercise
	CapabilitySummarizeTopic
)

// Tag is the wire name the classifier uses for the capability.
func (c Capability) Tag() string {
	switch c {
	case CapabilityRetrieveDocs:
		return "retrieve_docs"
	case CapabilityKnowledgeReport:
		return "knowledge_report"
	case CapabilityTopicSummary:
		return "topic_summary"
	case CapabilityRecommendExercises:
		return "recommend_exercises"
	case CapabilityAskExercise:
		return "ask_exercise"
	case CapabilityGradePending:
		return "grade_pending"
	case CapabilityGradeExercise:
		return "grade_exercise"
	case CapabilitySummarizeTopic:
		return "summarize_topic"
	default:
		return "unknown"
	}
}

func (c Capability) String() string { return c.Tag() }

func capabilityFromTag(tag string) (Capability, bool) {
	for _, c := range []Capability{
		CapabilityRetrieveDocs,
		CapabilityKnowledgeReport,
		CapabilityTopicSummary,
		CapabilityRecommendExercises,
		CapabilityAskExercise,
		CapabilityGradePending,
		CapabilityGradeExercise,
		CapabilitySummarizeTopic,
	} {
		if c.Tag() == tag {
			return c, true
		}
	}
	return CapabilityRetrieveDocs, false
}

// Intent is the router's output: exactly one capability and its argument.
type Intent struct {
	Capability Capability
	Input      string
}

// RouteResult carries the intent plus the supersede signal: the student
// explicitly asked for a new exercise while one was pending, so the
// orchestrator clears the slot before dispatch.
type RouteResult struct {
	Intent           Intent
	SupersedePending bool
}

// GuardPolicy holds the heuristic phrase lists that override the classifier.
// The defaults are tuned for Spanish; deployments for another language
// substitute their own lists. The lists are heuristic, not a specification
// of intent.
type GuardPolicy struct {
	NewExerciseTriggers []string
	QuestionPrefixes    []string
	QuestionMarks       []string
}

func DefaultGuardPolicy() GuardPolicy {
	return GuardPolicy{
		NewExerciseTriggers: []string{
			"dame un ejercicio",
			"dame otro ejercicio",
			"otro ejercicio",
			"nuevo ejercicio",
			"un ejercicio de",
			"quiero practicar",
		},
		QuestionPrefixes: []string{
			"qué", "que", "cómo", "como", "cuál", "cual",
			"por qué", "por que", "cuándo", "cuando",
			"dónde", "donde", "quién", "quien", "para qué",
		},
		QuestionMarks: []string{"?", "¿"},
	}
}

// WantsNewExercise reports an explicit request for a fresh exercise.
func (p GuardPolicy) WantsNewExercise(text string) bool {
	lower := strings.ToLower(text)
	for _, trigger := range p.NewExerciseTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// LooksLikeQuestion reports a question-shaped utterance: interrogation marks
// anywhere, or an interrogative first word.
func (p GuardPolicy) LooksLikeQuestion(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, mark := range p.QuestionMarks {
		if strings.Contains(lower, mark) {
			return true
		}
	}
	for _, prefix := range p.QuestionPrefixes {
		if lower == prefix || strings.HasPrefix(lower, prefix+" ") {
			return true
		}
	}
	return false
}

type topicCatalog interface {
	TopicNames(ctx context.Context) ([]string, error)
}

// RouteRequest is one utterance plus the session context the router needs.
type RouteRequest struct {
	Legajo          string
	Text            string
	History         []Exchange
	PendingExercise string
}

// Router selects exactly one capability per utterance. The generative
// classifier is advisory: hand-coded guards preserve the single
// pending-exercise invariant because model classification is probabilistic
// and cannot be trusted with it.
type Router struct {
	client llm.LLMClient
	topics topicCatalog
	guard  GuardPolicy
}

func NewRouter(client llm.LLMClient, topics topicCatalog, guard GuardPolicy) *Router {
	return &Router{
		client: client,
		topics: topics,
		guard:  guard,
	}
}

func (r *Router) Route(ctx context.Context, req RouteRequest) RouteResult {
	pending := req.PendingExercise != ""
	explicitNew := r.guard.WantsNewExercise(req.Text)

	// An answer to a pending exercise must not be misrouted: anything that is
	// neither a new-exercise request nor question-shaped bypasses the
	// classifier entirely.
	if pending && !explicitNew && !r.guard.LooksLikeQuestion(req.Text) {
		return RouteResult{Intent: Intent{Capability: CapabilityGradePending, Input: req.Text}}
	}

	supersede := pending && explicitNew

	intent, ok := r.classify(ctx, req)
	if !ok {
		if pending && !explicitNew {
			return RouteResult{Intent: Intent{Capability: CapabilityGradePending, Input: req.Text}}
		}
		return RouteResult{
			Intent:           Intent{Capability: CapabilityRetrieveDocs, Input: req.Text},
			SupersedePending: supersede,
		}
	}

	// The classifier may ignore context and issue a new exercise over a
	// pending one; downgrade to grading unless the student asked explicitly.
	if intent.Capability == CapabilityAskExercise && pending && !explicitNew {
		return RouteResult{Intent: Intent{Capability: CapabilityGradePending, Input: req.Text}}
	}

	return RouteResult{Intent: intent, SupersedePending: supersede}
}

// classify submits the classification prompt and parses the tool selection.
// false means unparsed output, a failed model call or an unknown tool; the
// caller resolves all three through the fallback rule.
func (r *Router) classify(ctx context.Context, req RouteRequest) (Intent, bool) {
	topics := ""
	if r.topics != nil {
		names, err := r.topics.TopicNames(ctx)
		if err != nil {
			logger.Error("Could not list topics for the router prompt", zap.Error(err))
		} else {
			topics = strings.Join(names, ", ")
		}
	}

	systemPrompt, userPrompt, err := prompts.RenderRouterPrompt(prompts.RouterPromptData{
		Legajo:       req.Legajo,
		ContextLines: historyLines(req.History),
		Topics:       topics,
		UserText:     req.Text,
	})
	if err != nil {
		logger.Error("Could not render the router prompt", zap.Error(err))
		return Intent{}, false
	}

	raw, err := generate(ctx, r.client, userPrompt,
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(512),
	)
	if err != nil {
		logger.Error("Classifier call failed", zap.Error(err))
		return Intent{}, false
	}

	selection, ok := parseToolSelection(raw)
	if !ok {
		return Intent{}, false
	}

	capability, known := capabilityFromTag(selection.Tool)
	if !known {
		return Intent{}, false
	}

	logger.Info("Selected capability",
		zap.String("capability", capability.Tag()),
		zap.String("input", truncate(selection.Input, 120)))

	return Intent{Capability: capability, Input: selection.Input}, true
}

func historyLines(history []Exchange) []string {
	lines := make([]string, 0, len(history))
	for _, exchange := range history {
		tool := exchange.Tool
		if tool == "" {
			tool = "desconocido"
		}
		lines = append(lines, fmt.Sprintf("- U: %s | Tool: %s | A: %s",
			strings.TrimSpace(exchange.UserText),
			tool,
			truncate(strings.TrimSpace(exchange.Response), responsePreviewLimit)))
	}
	return lines
}
