package agent

import (
	"encoding/json"
	"strings"
)

// firstJSONSpan slices the first '{' through the last '}' of free-form model
// output, or "" when no such span exists. Generative output carries no
// structural guarantee, so every structured consumer goes through here.
func firstJSONSpan(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

type toolSelection struct {
	Tool  string
	Input string
}

// parseToolSelection extracts the {"tool": ..., "input": ...} object from the
// classifier's output. The boolean is false for anything unusable; callers
// route unparsed results through the same fallback path as model failures.
func parseToolSelection(raw string) (toolSelection, bool) {
	span := firstJSONSpan(raw)
	if span == "" {
		return toolSelection{}, false
	}

	var payload struct {
		Tool  string          `json:"tool"`
		Input json.RawMessage `json:"input"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return toolSelection{}, false
	}

	tool := strings.TrimSpace(payload.Tool)
	if tool == "" {
		return toolSelection{}, false
	}

	input := ""
	if len(payload.Input) > 0 {
		var str string
		if err := json.Unmarshal(payload.Input, &str); err == nil {
			input = strings.TrimSpace(str)
		} else {
			// Structured inputs (grade_exercise) stay JSON-encoded.
			input = strings.TrimSpace(string(payload.Input))
		}
	}

	return toolSelection{Tool: tool, Input: input}, true
}

// parseGradePayload reads an explicit grading request: JSON with exercise_id
// and answer_text, or "exercise_id: ..." / "answer: ..." lines as a lenient
// fallback.
func parseGradePayload(payload string) (exerciseID, answerText string, ok bool) {
	var data struct {
		ExerciseID string `json:"exercise_id"`
		AnswerText string `json:"answer_text"`
	}
	if err := json.Unmarshal([]byte(payload), &data); err == nil {
		exerciseID = strings.TrimSpace(data.ExerciseID)
		answerText = strings.TrimSpace(data.AnswerText)
	} else {
		for _, line := range strings.Split(payload, "\n") {
			lower := strings.ToLower(line)
			switch {
			case strings.Contains(line, "exercise_id"):
				if _, after, found := strings.Cut(line, ":"); found {
					exerciseID = strings.TrimSpace(after)
				}
			case strings.HasPrefix(lower, "answer") || strings.HasPrefix(lower, "respuesta"):
				if _, after, found := strings.Cut(line, ":"); found {
					answerText = strings.TrimSpace(after)
				}
			}
		}
	}

	return exerciseID, answerText, exerciseID != "" && answerText != ""
}

// truncate caps a string at max runes, appending "..." when cut. Responses
// are Spanish text; slicing bytes would split multibyte runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
