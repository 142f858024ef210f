package services

import (
	"context"
	"sync"

	"github.com/skycastapp/skycast/internal/core/domain"
)

// Session tracks the active identity. It is the only writer of that
// pointer: two states, logged out (guest) and logged in (account), with
// transitions driven by the auth service. Logging out discards the
// in-memory account reference and deletes nothing durable.
type Session struct {
	auth *AuthService

	mu   sync.RWMutex
	user *domain.User
}

func NewSession(auth *AuthService) *Session {
	return &Session{
		auth: auth,
	}
}

// Login transitions to the logged-in state on successful verification.
// On failure the session stays in its current state.
func (s *Session) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.auth.Login(ctx, LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	return user, nil
}

// Logout always succeeds, whatever the current state.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// Register creates an account without logging it in.
func (s *Session) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.auth.Register(ctx, RegisterInput{
		Username: username,
		Password: password,
	})
}

func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Identity returns the routing identity for the preference facade: the
// account identity while logged in, the guest identity otherwise.
func (s *Session) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.Guest
	}
	return domain.AccountIdentity(s.user.ID)
}

// CurrentUser returns a copy of the logged-in account, or nil.
func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	clone := *s.user
	return &clone
}
