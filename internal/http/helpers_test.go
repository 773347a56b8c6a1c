package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"kalaur/internal/domain"
	"kalaur/internal/http/handlers"
	applog "kalaur/internal/log"
	"kalaur/internal/repos"
	"kalaur/internal/services"
	"kalaur/internal/session"
)

type fakeGateway struct {
	calls int
	last  domain.PaymentRequest
	url   string
	err   error
}

func (f *fakeGateway) CreateSession(_ context.Context, req domain.PaymentRequest) (string, error) {
	f.calls++
	f.last = req
	return f.url, f.err
}

type fakeCarrier struct {
	calls  int
	places []domain.Place
	err    error
}

func (f *fakeCarrier) Cities(context.Context, string, int) ([]domain.Place, error) {
	f.calls++
	return f.places, f.err
}

func (f *fakeCarrier) Warehouses(context.Context, string, int) ([]domain.Place, error) {
	f.calls++
	return f.places, f.err
}

type testEnv struct {
	app     *fiber.App
	gateway *fakeGateway
	carrier *fakeCarrier
	store   repos.OverrideStore
}

type envOption func(*envConfig)

type envConfig struct {
	secret    string
	noGateway bool
	noCarrier bool
	opts      handlers.Options
	store     repos.OverrideStore
}

func withSecret(s string) envOption { return func(c *envConfig) { c.secret = s } }
func withoutGateway() envOption     { return func(c *envConfig) { c.noGateway = true } }
func withoutCarrier() envOption     { return func(c *envConfig) { c.noCarrier = true } }

func withOptions(o handlers.Options) envOption {
	return func(c *envConfig) { c.opts = o }
}

func withStore(s repos.OverrideStore) envOption {
	return func(c *envConfig) { c.store = s }
}

// newEnv wires the real services over an in-memory database with fake
// payment and carrier upstreams.
func newEnv(t *testing.T, options ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{secret: "test-secret"}
	for _, o := range options {
		o(&cfg)
	}

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var store repos.OverrideStore = repos.NewSQLOverrideStore(db)
	if cfg.store != nil {
		store = cfg.store
	}
	auth, err := services.NewAuthService("admi", "admin", "", session.NewManager(cfg.secret, false))
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	catalog := services.NewCatalogService(repos.NewPartsRepo(repos.DefaultParts()), store)

	env := &testEnv{gateway: &fakeGateway{url: "https://pay.example/cs_test"}, carrier: &fakeCarrier{}, store: store}
	var gw services.PaymentGateway = env.gateway
	if cfg.noGateway {
		gw = nil
	}
	var carrier services.Carrier = env.carrier
	if cfg.noCarrier {
		carrier = nil
	}

	deps := handlers.NewDeps(
		auth,
		catalog,
		services.NewCheckoutService(catalog, gw, "uah", "https://kalaur.example"),
		services.NewShippingService(carrier),
		services.NewBookkeepingService(repos.NewSalesRepo(db), repos.NewServiceOrderRepo(db), repos.NewCarRepo(db)),
	)
	opts := cfg.opts
	opts.AccessLog = io.Discard
	env.app = handlers.NewApp(deps, opts)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: bad json %q", method, path, raw)
		}
	}
	return resp, out
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	resp, _ := e.do(t, "POST", "/admin/login", `{"username":"admi","password":"admin"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d", resp.StatusCode)
	}
	c := sessionCookie(resp)
	if c == nil || c.Value == "" {
		t.Fatal("login did not set a session cookie")
	}
	return c
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	Status int            `json:"status"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

// captureLogs points the app logger at a buffer while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	applog.Setup(&buf, "debug", "json")
	defer applog.Setup(os.Stdout, "info", "json")

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if line != "" && json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}
