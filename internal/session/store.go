// internal/session/store.go
package session

import (
	"sync"
	"time"

	"tarot-bot/internal/models"
)

// Store holds conversation sessions for the lifetime of the process.
// Sessions are returned by value; callers write changes back with Put.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]models.Session
	locks    map[int64]*sync.Mutex
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]models.Session),
		locks:    make(map[int64]*sync.Mutex),
		now:      time.Now,
	}
}

// GetOrCreate returns the user's session, creating it in the menu state on first contact.
func (s *Store) GetOrCreate(userID int64) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	sess := models.Session{UserID: userID, State: models.StateMenu, UpdatedAt: s.now()}
	s.sessions[userID] = sess
	return sess
}

func (s *Store) Get(userID int64) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

func (s *Store) Put(sess models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.UpdatedAt = s.now()
	s.sessions[sess.UserID] = sess
}

// SetState is Put for the common case of changing only the state.
func (s *Store) SetState(userID int64, state models.State) {
	s.Put(models.Session{UserID: userID, State: state})
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Lock serializes handlers for one user. Different users never block each other.
// The returned function releases the lock.
func (s *Store) Lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
