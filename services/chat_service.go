package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/agent"
)

type utteranceHandler interface {
	HandleUtterance(ctx context.Context, session *agent.Session, text string) string
}

type sessionSource interface {
	Get(ctx context.Context, legajo string) (*agent.Session, error)
}

// ChatService exposes the tutoring loop over HTTP JSON.
type ChatService struct {
	sessions     sessionSource
	orchestrator utteranceHandler
}

func NewChatService(sessions sessionSource, orchestrator utteranceHandler) *ChatService {
	return &ChatService{
		sessions:     sessions,
		orchestrator: orchestrator,
	}
}

type chatRequest struct {
	Legajo  string `json:"legajo"`
	Message string `json:"message"`
}

type chatResponse struct {
	Legajo   string `json:"legajo"`
	Response string `json:"response"`
}

func (c *ChatService) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Legajo = strings.TrimSpace(req.Legajo)
	req.Message = strings.TrimSpace(req.Message)
	if req.Legajo == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "legajo and message are required")
		return
	}

	session, err := c.sessions.Get(r.Context(), req.Legajo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not open the session")
		return
	}

	response := c.orchestrator.HandleUtterance(r.Context(), session, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{
		Legajo:   req.Legajo,
		Response: response,
	})
}

func (c *ChatService) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
