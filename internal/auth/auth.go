// Package auth implements admin password verification, session issuance
// and the login-attempt lockout ladder.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/Huiyue420/line-store-bot/internal/userstate"
)

const (
	maxLoginAttempts = 3
	blockDuration    = 15 * time.Minute
	sessionTTL       = 24 * time.Hour
	tokenBytes       = 32
)

// HashPassword returns the hex sha256 digest of plain. The configured
// admin credential is stored and compared in this form.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// GenerateSessionToken returns an opaque 64-hex-char token built from 32
// cryptographically random bytes.
func GenerateSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Service checks the single admin credential and tracks per-user login
// state through the userstate store.
type Service struct {
	states       *userstate.Store
	passwordHash string

	now func() time.Time // swapped out in tests
}

func New(states *userstate.Store, passwordHash string) *Service {
	return &Service{states: states, passwordHash: passwordHash, now: time.Now}
}

// VerifyPassword reports whether candidate digests to the configured
// admin password hash.
func (s *Service) VerifyPassword(candidate string) bool {
	return HashPassword(candidate) == s.passwordHash
}

// Login runs the lockout ladder and, on success, issues a fresh session.
// The returned message is user-facing either way.
func (s *Service) Login(userID, password string) (bool, string) {
	now := s.now()
	st := s.states.Get(userID)

	if st.BlockedUntil != nil {
		if now.Before(*st.BlockedUntil) {
			remaining := int(math.Ceil(st.BlockedUntil.Sub(now).Seconds() / 60))
			return false, fmt.Sprintf("Account temporarily locked. Try again in %d minute(s).", remaining)
		}
		s.states.Unblock(userID)
		st = s.states.Get(userID)
	}

	if st.LoginAttempts >= maxLoginAttempts {
		// The lockout itself does not count as another failure.
		s.states.Block(userID, now.Add(blockDuration))
		return false, "Too many login attempts. Account locked for 15 minutes."
	}

	if !s.VerifyPassword(password) {
		s.states.IncrementLoginAttempts(userID, now)
		remaining := maxLoginAttempts - s.states.Get(userID).LoginAttempts
		return false, fmt.Sprintf("Wrong password. %d attempt(s) remaining.", remaining)
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return false, "Could not start a session. Please try again later."
	}
	s.states.SetAdmin(userID, true)
	s.states.SetLoggedIn(userID, true)
	s.states.SetSessionToken(userID, token, now)
	s.states.ResetLoginAttempts(userID)
	return true, "Login successful! You are now in admin mode."
}

// Logout ends the admin session unconditionally; repeating it is harmless.
func (s *Service) Logout(userID string) string {
	s.states.SetLoggedIn(userID, false)
	s.states.ClearSessionToken(userID)
	return "Logged out of admin mode."
}

// IsAdmin reports whether the user holds a live admin session. Session
// validity is absolute wall-clock age under 24 hours, not sliding.
func (s *Service) IsAdmin(userID string) bool {
	st := s.states.Get(userID)
	return st.IsAdmin && st.IsLoggedIn && s.sessionValid(st)
}

func (s *Service) sessionValid(st userstate.State) bool {
	if st.SessionToken == "" || st.SessionCreated == nil {
		return false
	}
	return s.now().Sub(*st.SessionCreated) < sessionTTL
}
