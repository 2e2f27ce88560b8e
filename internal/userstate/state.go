// Package userstate persists per-user authentication state keyed by the
// messaging-platform user id.
package userstate

import (
	"log"
	"sync"
	"time"

	"github.com/Huiyue420/line-store-bot/internal/jsonstore"
)

// State holds everything the auth service tracks about one user. Entries
// are created lazily on first access and never deleted.
type State struct {
	IsAdmin        bool       `json:"is_admin"`
	IsLoggedIn     bool       `json:"is_logged_in"`
	LoginAttempts  int        `json:"login_attempts"`
	LastAttemptAt  *time.Time `json:"last_attempt_time"`
	BlockedUntil   *time.Time `json:"blocked_until"`
	SessionToken   string     `json:"session_token,omitempty"`
	SessionCreated *time.Time `json:"session_created"`
}

// Store is a write-through document store: every setter rewrites the
// backing file. A failed write is logged and the in-memory view stands.
type Store struct {
	mu     sync.Mutex
	path   string
	states map[string]*State
}

func NewStore(path string) *Store {
	s := &Store{path: path, states: make(map[string]*State)}
	if err := jsonstore.Load(path, &s.states); err != nil {
		log.Printf("[userstate] load %s: %v (starting empty)", path, err)
		s.states = make(map[string]*State)
	}
	return s
}

// Get returns a copy of the user's state, initializing and persisting a
// default entry on first sight.
func (s *Store) Get(userID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getOrInit(userID)
}

func (s *Store) getOrInit(userID string) *State {
	st, ok := s.states[userID]
	if !ok {
		st = &State{}
		s.states[userID] = st
		s.save()
	}
	return st
}

func (s *Store) save() {
	if err := jsonstore.Save(s.path, s.states); err != nil {
		log.Printf("[userstate] save %s: %v", s.path, err)
	}
}

func (s *Store) SetAdmin(userID string, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrInit(userID).IsAdmin = admin
	s.save()
}

// SetLoggedIn flips the login flag; logging out also drops the session.
func (s *Store) SetLoggedIn(userID string, loggedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrInit(userID)
	st.IsLoggedIn = loggedIn
	if !loggedIn {
		st.SessionToken = ""
		st.SessionCreated = nil
	}
	s.save()
}

func (s *Store) IncrementLoginAttempts(userID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrInit(userID)
	st.LoginAttempts++
	st.LastAttemptAt = &at
	s.save()
}

func (s *Store) ResetLoginAttempts(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrInit(userID)
	st.LoginAttempts = 0
	st.LastAttemptAt = nil
	st.BlockedUntil = nil
	s.save()
}

func (s *Store) Block(userID string, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrInit(userID).BlockedUntil = &until
	s.save()
}

// Unblock clears an expired block and the attempt counter with it.
func (s *Store) Unblock(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrInit(userID)
	st.BlockedUntil = nil
	st.LoginAttempts = 0
	s.save()
}

func (s *Store) SetSessionToken(userID, token string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrInit(userID)
	st.SessionToken = token
	st.SessionCreated = &at
	s.save()
}

func (s *Store) ClearSessionToken(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrInit(userID)
	st.SessionToken = ""
	st.SessionCreated = nil
	s.save()
}
