package agent

import (
	"sync"
)

const (
	historyLimit         = 6
	responsePreviewLimit = 300
)

// Exchange is one recorded turn: what the student said, which capability
// handled it and a preview of the reply.
type Exchange struct {
	UserText string
	Tool     string
	Response string
}

// Session is the per-student conversational state: a bounded history and at
// most one pending exercise. All access goes through the locked methods; a
// student may have concurrent requests in flight.
type Session struct {
	// turn serializes whole utterances so two concurrent messages from the
	// same student cannot interleave around the pending-exercise slot.
	turn sync.Mutex

	mu              sync.Mutex
	legajo          string
	history         []Exchange
	pendingExercise string
}

func NewSession(legajo string) *Session {
	return &Session{legajo: legajo}
}

func (s *Session) Legajo() string { return s.legajo }

func (s *Session) History() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) PendingExercise() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingExercise
}

func (s *Session) SetPendingExercise(exerciseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingExercise = exerciseID
}

func (s *Session) ClearPendingExercise() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingExercise = ""
}

// record appends one exchange, evicting the oldest beyond the history cap.
// The response is stored truncated; the full reply goes to the caller, not
// the session.
func (s *Session) record(userText, tool, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Exchange{
		UserText: userText,
		Tool:     tool,
		Response: truncate(response, responsePreviewLimit),
	})
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
}
