package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"kalaur/internal/apperr"
	"kalaur/internal/session"
)

var ErrBadCreds = apperr.New(apperr.CodeUnauthorized, "Invalid credentials")

// AuthService checks the single admin account and hands out session cookies.
type AuthService struct {
	username string
	hash     []byte
	Sessions *session.Manager
	Now      func() time.Time
}

// NewAuthService prefers passwordHash (bcrypt) and otherwise hashes the
// plain password once at startup.
func NewAuthService(username, password, passwordHash string, sessions *session.Manager) (*AuthService, error) {
	s := &AuthService{username: username, Sessions: sessions, Now: time.Now}
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		s.hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.hash = h
	}
	return s, nil
}

// Login returns a fresh session cookie for matching credentials.
func (s *AuthService) Login(username, password string) (*fiber.Cookie, error) {
	if !s.Sessions.Configured() {
		return nil, apperr.New(apperr.CodeNotConfigured, "admin session secret is not set")
	}
	if s.username == "" || len(s.hash) == 0 {
		return nil, apperr.New(apperr.CodeNotConfigured, "admin credentials are not set")
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return nil, ErrBadCreds
	}
	return s.Sessions.Issue(s.Now()), nil
}

// Logout returns the Set-Cookie header value that clears the session.
func (s *AuthService) Logout() string {
	return s.Sessions.Revoke()
}

// IsAdmin validates the session cookie found in a raw Cookie header.
func (s *AuthService) IsAdmin(cookieHeader string) bool {
	return s.Sessions.Validate(cookieHeader, s.Now())
}
