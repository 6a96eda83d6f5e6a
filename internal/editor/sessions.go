package editor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"supportraise/internal/domain"
)

type session struct {
	userID  string
	editor  *Editor
	touched time.Time
}

// Sessions keeps open editors per user and drops them after an idle TTL.
type Sessions struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]*session
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{ttl: ttl, now: time.Now, items: make(map[string]*session)}
}

// Open registers e for userID and returns the new session ID.
func (s *Sessions) Open(userID string, e *Editor) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	id := uuid.NewString()
	s.items[id] = &session{userID: userID, editor: e, touched: now}
	return id
}

// Get returns the editor for id. Sessions owned by another user, expired
// sessions and closed editors all report domain.ErrNotFound.
func (s *Sessions) Get(userID, id string) (*Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.items[id]
	if !ok || sess.userID != userID {
		return nil, domain.ErrNotFound
	}
	if sess.editor.State() == StateClosed {
		delete(s.items, id)
		return nil, domain.ErrNotFound
	}
	sess.touched = now
	return sess.editor, nil
}

// Remove closes and forgets the session.
func (s *Sessions) Remove(userID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.items[id]; ok && sess.userID == userID {
		sess.editor.Close()
		delete(s.items, id)
	}
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Sessions) sweepLocked(now time.Time) {
	for id, sess := range s.items {
		if now.Sub(sess.touched) > s.ttl {
			sess.editor.Close()
			delete(s.items, id)
		}
	}
}
