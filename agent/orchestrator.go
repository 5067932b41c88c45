package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/db"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

const (
	recommendationLimit = 3
	genericErrorPrefix  = "Ocurrió un error procesando tu mensaje: "
)

type activitySource interface {
	TopicActivitySummary(ctx context.Context, legajo, term string) ([]db.TopicActivity, error)
}

// Orchestrator runs one conversational turn end to end: route the utterance,
// reconcile the pending-exercise slot, dispatch the capability and record the
// exchange. It always produces a non-empty reply.
type Orchestrator struct {
	router     *Router
	mastery    *MasteryStore
	selector   *ExerciseSelector
	grading    *GradingService
	summarizer *Summarizer
	answerer   *Answerer
	activity   activitySource
}

func NewOrchestrator(
	router *Router,
	mastery *MasteryStore,
	selector *ExerciseSelector,
	grading *GradingService,
	summarizer *Summarizer,
	answerer *Answerer,
	activity activitySource,
) *Orchestrator {
	return &Orchestrator{
		router:     router,
		mastery:    mastery,
		selector:   selector,
		grading:    grading,
		summarizer: summarizer,
		answerer:   answerer,
		activity:   activity,
	}
}

// HandleUtterance processes one student message against its session. Turns
// for the same session run strictly one at a time.
func (o *Orchestrator) HandleUtterance(ctx context.Context, session *Session, text string) string {
	session.turn.Lock()
	defer session.turn.Unlock()

	result := o.router.Route(ctx, RouteRequest{
		Legajo:          session.Legajo(),
		Text:            text,
		History:         session.History(),
		PendingExercise: session.PendingExercise(),
	})

	if result.SupersedePending {
		session.ClearPendingExercise()
	}

	response, err := o.dispatch(ctx, session, result.Intent, text)
	if err != nil {
		logger.Error("Capability dispatch failed",
			zap.String("legajo", session.Legajo()),
			zap.String("capability", result.Intent.Capability.Tag()),
			zap.Error(err))
		response = errorMessage(err)
	}
	if strings.TrimSpace(response) == "" {
		response = "No pude generar una respuesta. Probá reformular tu mensaje."
	}

	session.record(text, result.Intent.Capability.Tag(), response)
	return response
}

func (o *Orchestrator) dispatch(ctx context.Context, session *Session, intent Intent, rawText string) (string, error) {
	legajo := session.Legajo()

	switch intent.Capability {
	case CapabilityRetrieveDocs:
		return o.answerer.Answer(ctx, intentText(intent, rawText))

	case CapabilityKnowledgeReport:
		levels, err := o.mastery.Get(ctx, legajo, intent.Input)
		if err != nil {
			return "", err
		}
		if len(levels) == 0 {
			return "Sin registros de conocimiento.", nil
		}
		lines := make([]string, 0, len(levels)+1)
		lines = append(lines, "Tu nivel de conocimiento por tema:")
		for _, tl := range levels {
			lines = append(lines, fmt.Sprintf("- %s (%s): nivel %.2f", tl.Name, tl.TopicID, tl.Level))
		}
		return strings.Join(lines, "\n"), nil

	case CapabilityTopicSummary:
		rows, err := o.activity.TopicActivitySummary(ctx, legajo, intent.Input)
		if err != nil {
			return "", err
		}
		if len(rows) == 0 {
			return "Sin actividad para resumir.", nil
		}
		lines := make([]string, 0, len(rows)+1)
		lines = append(lines, "Tu actividad por tema:")
		for _, row := range rows {
			lines = append(lines, fmt.Sprintf(
				"- %s: %d sesiones, %d respuestas, conf. prom. %.2f, correctitud %.0f%%, última actividad %s",
				row.Name, row.Sessions, row.Answers, row.AvgConfidence,
				row.CorrectnessRate*100, row.LastActivity))
		}
		return strings.Join(lines, "\n"), nil

	case CapabilityRecommendExercises:
		rec, err := o.selector.Recommend(ctx, legajo, intentText(intent, rawText), recommendationLimit)
		if err != nil {
			return "", err
		}
		if len(rec.Exercises) == 0 {
			return fmt.Sprintf("No hay más ejercicios para tu nivel en el tema %s.", rec.TopicName), nil
		}
		lines := make([]string, 0, len(rec.Exercises)+1)
		lines = append(lines, fmt.Sprintf("Tema: %s (nivel %.2f)", rec.TopicName, rec.Level))
		for _, ex := range rec.Exercises {
			lines = append(lines, fmt.Sprintf("- %s — %s (dif %.2f)", ex.ID, ex.Task, ex.Difficulty))
		}
		return strings.Join(lines, "\n"), nil

	case CapabilityAskExercise:
		rec, err := o.selector.Recommend(ctx, legajo, intentText(intent, rawText), 1)
		if err != nil {
			return "", err
		}
		if len(rec.Exercises) == 0 {
			return fmt.Sprintf("No hay más ejercicios para tu nivel en el tema %s.", rec.TopicName), nil
		}
		exercise := rec.Exercises[0]
		session.SetPendingExercise(exercise.ID)
		return fmt.Sprintf("Ejercicio %s:\n%s", exercise.ID, exercise.Task), nil

	case CapabilityGradePending:
		exerciseID := session.PendingExercise()
		if exerciseID == "" {
			return `No hay un ejercicio pendiente. Pide uno con: "Dame un ejercicio de <tema>".`, nil
		}
		// One attempt per issued exercise: the slot is consumed even when
		// grading fails afterwards.
		session.ClearPendingExercise()
		grade, err := o.grading.Grade(ctx, legajo, exerciseID, rawText)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Tu respuesta es: %s. Confianza: %.3f. Nivel actualizado (tema %s): %.2f.",
			correctnessLabel(grade.Confidence), grade.Confidence, grade.TopicID, grade.NewLevel), nil

	case CapabilityGradeExercise:
		exerciseID, answerText, ok := parseGradePayload(intent.Input)
		if !ok {
			return "Formato inválido. Indicá el id del ejercicio y tu respuesta, por ejemplo: ej-01: mi respuesta.", nil
		}
		grade, err := o.grading.Grade(ctx, legajo, exerciseID, answerText)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Confianza: %.3f  Nuevo nivel (tema %s): %.2f",
			grade.Confidence, grade.TopicID, grade.NewLevel), nil

	case CapabilitySummarizeTopic:
		return o.summarizer.Summarize(ctx, intentText(intent, rawText), 8)

	default:
		return "", fmt.Errorf("unhandled capability %q", intent.Capability.Tag())
	}
}

// intentText prefers the classifier's extracted argument, falling back to the
// raw utterance when the classifier returned nothing usable.
func intentText(intent Intent, rawText string) string {
	if strings.TrimSpace(intent.Input) != "" {
		return intent.Input
	}
	return rawText
}

func correctnessLabel(confidence float64) string {
	if IsCorrect(confidence) {
		return "correcta"
	}
	return "incorrecta"
}

// errorMessage maps known failures to student-facing Spanish; everything else
// gets the generic prefix with a truncated cause.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrTopicNotFound):
		return "No encontré un tema que coincida con tu pedido."
	case errors.Is(err, ErrExerciseNotFound):
		return "No encontré ese ejercicio. Verificá el id e intentá de nuevo."
	case errors.Is(err, db.ErrTopicMissing):
		return "No encontré el tema asociado al ejercicio."
	case errors.Is(err, ErrEmbeddingUnavailable):
		return "El servicio de embeddings no está disponible en este momento. Intentá más tarde."
	default:
		return genericErrorPrefix + truncate(err.Error(), 200)
	}
}
