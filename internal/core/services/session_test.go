package services_test

import (
	"context"
	"testing"

	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/skycastapp/skycast/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func newTestSession(t *testing.T) *services.Session {
	t.Helper()

	repo := newFakeUserRepo()
	auth := services.NewAuthService(repo)
	session := services.NewSession(auth)

	_, err := session.Register(context.Background(), "alice", "supersecret")
	assert.NoError(t, err)

	return session
}

func TestSession_StartsLoggedOut(t *testing.T) {
	session := newTestSession(t)

	assert.False(t, session.IsLoggedIn())
	assert.Equal(t, domain.Guest, session.Identity())
	assert.Nil(t, session.CurrentUser())
}

func TestSession_RegisterDoesNotLogIn(t *testing.T) {
	repo := newFakeUserRepo()
	session := services.NewSession(services.NewAuthService(repo))

	user, err := session.Register(context.Background(), "bob", "supersecret")
	assert.NoError(t, err)
	assert.NotNil(t, user)

	assert.False(t, session.IsLoggedIn())
	assert.Equal(t, domain.Guest, session.Identity())
}

func TestSession_LoginAndLogout(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	user, err := session.Login(ctx, "alice", "supersecret")
	assert.NoError(t, err)
	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, domain.AccountIdentity(user.ID), session.Identity())

	current := session.CurrentUser()
	assert.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)

	session.Logout()
	assert.False(t, session.IsLoggedIn())
	assert.Equal(t, domain.Guest, session.Identity())
	assert.Nil(t, session.CurrentUser())
}

func TestSession_FailedLoginKeepsState(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	_, err := session.Login(ctx, "alice", "wrongsecret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, session.IsLoggedIn())

	// A failed attempt while logged in keeps the current account.
	_, err = session.Login(ctx, "alice", "supersecret")
	assert.NoError(t, err)
	_, err = session.Login(ctx, "alice", "wrongsecret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.True(t, session.IsLoggedIn())
}

func TestSession_LogoutIsIdempotent(t *testing.T) {
	session := newTestSession(t)

	session.Logout()
	session.Logout()
	assert.False(t, session.IsLoggedIn())
}

func TestSession_CurrentUserIsCopy(t *testing.T) {
	session := newTestSession(t)

	_, err := session.Login(context.Background(), "alice", "supersecret")
	assert.NoError(t, err)

	clone := session.CurrentUser()
	clone.Username = "mutated"

	assert.Equal(t, "alice", session.CurrentUser().Username)
}
