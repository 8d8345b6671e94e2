// Package sessions keeps per-user conversational state for multi-step
// dialogs. Each user has at most one active session: the step they are
// currently answering plus the values collected so far. Sessions live
// in process memory and are discarded on restart.
package sessions

import (
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/logger"
)

// Step identifies a single prompt inside a dialog flow.
type Step string

// StepNone means the user has no active dialog.
const StepNone Step = ""

// Session holds the step a user is answering and the values gathered
// on the way there.
type Session struct {
	Step   Step
	Values map[string]any
}

// Store owns user sessions and dispatches incoming updates to the
// handler bound to the user's current step.
type Store interface {
	// Bind registers the handler invoked when a user on the given step
	// sends an update. Binding the same step twice keeps the last handler.
	Bind(step Step, h tele.HandlerFunc)

	CurrentStep(userID int64) Step
	SetStep(userID int64, step Step)
	InProgress(userID int64) bool

	SetValue(userID int64, key string, value any)
	Value(userID int64, key string) (any, bool)
	StringValue(userID int64, key string) (string, bool)
	Float64Value(userID int64, key string) (float64, bool)
	Values(userID int64) map[string]any

	// Clear drops the user's session entirely, step and values both.
	Clear(userID int64)

	// WithUser runs fn while holding the user's dispatch lock. Session
	// mutations made outside a step handler (cancel, flow starts,
	// commands) go through here so they cannot interleave with an
	// in-flight step. fn must not call WithUser or Handle for the
	// same user.
	WithUser(userID int64, fn func() error) error

	// Handle runs the handler bound to the sender's current step.
	// Updates from the same user are processed one at a time.
	Handle(c tele.Context) error
}

// NewStore returns an in-memory Store.
func NewStore() Store {
	return &memoryStore{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
		handlers: make(map[Step]tele.HandlerFunc),
	}
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex
	handlers map[Step]tele.HandlerFunc
}

func (s *memoryStore) Bind(step Step, h tele.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.handlers[step]; dup {
		logger.TG.Warn("session handler rebound", "step", string(step))
	}
	s.handlers[step] = h
}

func (s *memoryStore) session(userID int64) *Session {
	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	sess := &Session{Values: make(map[string]any)}
	s.sessions[userID] = sess
	return sess
}

func (s *memoryStore) CurrentStep(userID int64) Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.Step
	}
	return StepNone
}

func (s *memoryStore) SetStep(userID int64, step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(userID).Step = step
}

func (s *memoryStore) InProgress(userID int64) bool {
	return s.CurrentStep(userID) != StepNone
}

func (s *memoryStore) SetValue(userID int64, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(userID).Values[key] = value
}

func (s *memoryStore) Value(userID int64, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	v, ok := sess.Values[key]
	return v, ok
}

func (s *memoryStore) StringValue(userID int64, key string) (string, bool) {
	v, ok := s.Value(userID, key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *memoryStore) Float64Value(userID int64, key string) (float64, bool) {
	v, ok := s.Value(userID, key)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func (s *memoryStore) Values(userID int64) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any)
	if sess, ok := s.sessions[userID]; ok {
		for k, v := range sess.Values {
			out[k] = v
		}
	}
	return out
}

func (s *memoryStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// userLock returns the dispatch mutex for a user, creating it on first use.
func (s *memoryStore) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[userID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[userID] = l
	return l
}

func (s *memoryStore) WithUser(userID int64, fn func() error) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (s *memoryStore) Handle(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	return s.WithUser(sender.ID, func() error {
		step := s.CurrentStep(sender.ID)
		if step == StepNone {
			return nil
		}

		s.mu.RLock()
		h, ok := s.handlers[step]
		s.mu.RUnlock()
		if !ok {
			logger.TG.Warn("no handler for session step, clearing session",
				"step", string(step), "user_id", sender.ID)
			s.Clear(sender.ID)
			return nil
		}
		return h(c)
	})
}
