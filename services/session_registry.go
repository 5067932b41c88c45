package services

import (
	"context"
	"sync"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/agent"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

type studentUpserter interface {
	UpsertStudent(ctx context.Context, legajo string) error
}

// SessionRegistry hands out one live Session per legajo, creating it on first
// contact and upserting the Student node so later writes always have a vertex
// to attach to.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*agent.Session
	students studentUpserter
}

func NewSessionRegistry(students studentUpserter) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*agent.Session),
		students: students,
	}
}

func (r *SessionRegistry) Get(ctx context.Context, legajo string) (*agent.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[legajo]; ok {
		return session, nil
	}

	if err := r.students.UpsertStudent(ctx, legajo); err != nil {
		return nil, err
	}

	logger.Info("Starting session", zap.String("legajo", legajo))
	session := agent.NewSession(legajo)
	r.sessions[legajo] = session
	return session, nil
}
