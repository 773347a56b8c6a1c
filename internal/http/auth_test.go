package handlers_test

import (
	"net/http"
	"testing"
	"time"
)

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newEnv(t)
	resp, body := env.do(t, "POST", "/admin/login", `{"username":"admi","password":"admin"}`)
	if resp.StatusCode != http.StatusOK || body["ok"] != true {
		t.Fatalf("want 200 ok, got %d %v", resp.StatusCode, body)
	}
	c := sessionCookie(resp)
	if c == nil {
		t.Fatal("session cookie missing")
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", c)
	}
	if c.MaxAge != 7*24*60*60 {
		t.Fatalf("want 7 day max-age, got %d", c.MaxAge)
	}

	_, body = env.do(t, "GET", "/admin/session", "", c)
	if body["authenticated"] != true {
		t.Fatalf("session should be authenticated: %v", body)
	}
	_, body = env.do(t, "GET", "/admin/session", "")
	if body["authenticated"] != false {
		t.Fatalf("anonymous session should not be authenticated: %v", body)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newEnv(t)
	for _, payload := range []string{
		`{"username":"admi","password":"nope"}`,
		`{"username":"root","password":"admin"}`,
		`{"username":"admi"}`,
		`not json`,
	} {
		resp, body := env.do(t, "POST", "/admin/login", payload)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: want 401, got %d", payload, resp.StatusCode)
		}
		if body["error"] != "Invalid credentials" {
			t.Fatalf("%s: unexpected error body %v", payload, body)
		}
		if sessionCookie(resp) != nil {
			t.Fatalf("%s: no cookie expected on failure", payload)
		}
	}
}

func TestLoginWithoutSecretIsNotConfigured(t *testing.T) {
	env := newEnv(t, withSecret(""))
	resp, body := env.do(t, "POST", "/admin/login", `{"username":"admi","password":"admin"}`)
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("want 501, got %d", resp.StatusCode)
	}
	if body["code"] != "NOT_CONFIGURED" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newEnv(t)
	c := env.login(t)

	resp, _ := env.do(t, "POST", "/admin/logout", "", c)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	cleared := sessionCookie(resp)
	if cleared == nil || cleared.Value != "" {
		t.Fatalf("logout should clear the cookie, got %+v", cleared)
	}
	if cleared.MaxAge >= 0 {
		t.Fatalf("logout should send Max-Age=0, got %q", resp.Header.Get("Set-Cookie"))
	}
	if cleared.Expires.After(time.Now()) {
		t.Fatalf("cleared cookie should already be expired: %v", cleared.Expires)
	}
}
