// Package session issues and checks the stateless admin session cookie.
// The cookie value is base64url(JSON{"exp": unix millis}) "." base64url(HMAC-SHA256).
// There is no revocation list: a token stays valid until it expires.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	CookieName = "kalaur_admin_session"
	TTL        = 7 * 24 * time.Hour
)

type payload struct {
	Exp int64 `json:"exp"`
}

type Manager struct {
	secret []byte
	secure bool
}

// NewManager returns a manager signing with secret. secure sets the
// cookie's Secure attribute.
func NewManager(secret string, secure bool) *Manager {
	return &Manager{secret: []byte(secret), secure: secure}
}

// Configured reports whether a signing secret is present.
func (m *Manager) Configured() bool { return m != nil && len(m.secret) > 0 }

func (m *Manager) sign(data string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Token builds a signed token expiring TTL after now.
func (m *Manager) Token(now time.Time) string {
	b, _ := json.Marshal(payload{Exp: now.Add(TTL).UnixMilli()})
	data := base64.RawURLEncoding.EncodeToString(b)
	return data + "." + m.sign(data)
}

// Issue returns the session cookie for a fresh login.
func (m *Manager) Issue(now time.Time) *fiber.Cookie {
	return m.cookie(m.Token(now), int(TTL/time.Second))
}

// Revoke returns the Set-Cookie header value that drops the session:
// empty value, Max-Age=0 and an expiry in 1970. fasthttp omits a zero
// Max-Age, so the header is rendered by net/http instead.
func (m *Manager) Revoke() string {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	}
	return c.String()
}

func (m *Manager) cookie(value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   m.secure,
	}
}

// Validate checks the session cookie inside a raw Cookie header.
func (m *Manager) Validate(cookieHeader string, now time.Time) bool {
	tok, ok := FromHeader(cookieHeader)
	if !ok {
		return false
	}
	return m.ValidToken(tok, now)
}

// ValidToken accepts tok only if its signature matches and it has not expired.
func (m *Manager) ValidToken(tok string, now time.Time) bool {
	if !m.Configured() {
		return false
	}
	data, sig, ok := strings.Cut(tok, ".")
	if !ok || data == "" || sig == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(sig), []byte(m.sign(data))) != 1 {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return false
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil || p.Exp == 0 {
		return false
	}
	return now.UnixMilli() < p.Exp
}

// FromHeader extracts the session cookie value from a raw Cookie header.
func FromHeader(header string) (string, bool) {
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && name == CookieName {
			return value, value != ""
		}
	}
	return "", false
}
