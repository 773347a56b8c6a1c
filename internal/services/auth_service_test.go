package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kalaur/internal/apperr"
	"kalaur/internal/services"
	"kalaur/internal/session"
)

func newAuth(t *testing.T, secret string) *services.AuthService {
	t.Helper()
	auth, err := services.NewAuthService("admi", "admin", "", session.NewManager(secret, false))
	require.NoError(t, err)
	return auth
}

func TestLoginIssuesWorkingSession(t *testing.T) {
	auth := newAuth(t, "test-secret")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.Now = func() time.Time { return now }

	cookie, err := auth.Login("admi", "admin")
	require.NoError(t, err)
	assert.Equal(t, session.CookieName, cookie.Name)
	assert.True(t, cookie.HTTPOnly)
	assert.Equal(t, 604800, cookie.MaxAge)

	header := session.CookieName + "=" + cookie.Value
	assert.True(t, auth.IsAdmin(header))

	now = now.Add(session.TTL + time.Second)
	assert.False(t, auth.IsAdmin(header))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuth(t, "test-secret")
	for _, tc := range [][2]string{{"admi", "wrong"}, {"admin", "admin"}, {"", ""}} {
		_, err := auth.Login(tc[0], tc[1])
		assert.ErrorIs(t, err, services.ErrBadCreds, "%v", tc)
	}
}

func TestLoginWithoutSecretIsNotConfigured(t *testing.T) {
	auth := newAuth(t, "")
	_, err := auth.Login("admi", "admin")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotConfigured, apperr.As(err).Code())
	assert.False(t, auth.IsAdmin(session.CookieName+"=anything.sig"))
}

func TestLoginWithoutPasswordIsNotConfigured(t *testing.T) {
	auth, err := services.NewAuthService("admi", "", "", session.NewManager("s", false))
	require.NoError(t, err)
	_, err = auth.Login("admi", "")
	assert.Equal(t, apperr.CodeNotConfigured, apperr.As(err).Code())
}

func TestPasswordHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := services.NewAuthService("admi", "admin", string(hash), session.NewManager("s", false))
	require.NoError(t, err)

	_, err = auth.Login("admi", "admin")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, err = auth.Login("admi", "hunter2")
	assert.NoError(t, err)

	_, err = services.NewAuthService("admi", "", "not-a-hash", session.NewManager("s", false))
	assert.Error(t, err)
}

func TestLogoutClearsCookie(t *testing.T) {
	header := newAuth(t, "s").Logout()
	assert.True(t, strings.HasPrefix(header, session.CookieName+"=;"), header)
	assert.Contains(t, header, "Max-Age=0")
}
