package conversation

import (
	"sync"

	"expensebot/pkg/expense"
)

// State represents where a user is in the expense flow.
type State string

const (
	StateIdle                    State = "idle"
	StateAwaitingCategory        State = "awaiting_category"
	StateAwaitingNewCategoryName State = "awaiting_new_category_name"
)

// Session holds the pending draft of one user.
type Session struct {
	Draft               *expense.Draft
	AwaitingNewCategory bool
}

// State derives the flow state from session data.
func (s Session) State() State {
	switch {
	case s.Draft == nil:
		return StateIdle
	case s.AwaitingNewCategory:
		return StateAwaitingNewCategoryName
	default:
		return StateAwaitingCategory
	}
}

// Sessions manages user sessions across conversations.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[int64]Session),
	}
}

// Get returns a copy of the user's session, idle when none exists.
func (s *Sessions) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[userID]
}

// Start stores draft as the user's pending draft.
// It returns false and keeps the existing one when a draft is already pending.
func (s *Sessions) Start(userID int64, draft expense.Draft) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[userID].Draft != nil {
		return false
	}

	s.sessions[userID] = Session{Draft: &draft}
	return true
}

// AwaitNewCategory flags the user as typing a new category name.
// It returns false when the user has no pending draft.
func (s *Sessions) AwaitNewCategory(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || sess.Draft == nil {
		return false
	}

	sess.AwaitingNewCategory = true
	s.sessions[userID] = sess
	return true
}

// Clear drops the draft and the new category flag.
func (s *Sessions) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// ClearDraft drops the session only while it still holds draft.
// A session restarted meanwhile is left alone.
func (s *Sessions) ClearDraft(userID int64, draft *expense.Draft) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; !ok || sess.Draft != draft {
		return false
	}

	delete(s.sessions, userID)
	return true
}

func (s *Sessions) draft(userID int64) expense.Draft {
	if d := s.Get(userID).Draft; d != nil {
		return *d
	}
	return expense.Draft{}
}

// Len returns the number of users with a pending draft.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
