package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"wedsnap/internal/config"
	"wedsnap/internal/http/handlers"
	applog "wedsnap/internal/log"
	"wedsnap/internal/repos"
	"wedsnap/internal/services"
)

func testConfig() config.Config {
	return config.Config{DBDriver: repos.DriverSQLite, DBDSN: ":memory:", Env: "test", RateLimitPerMin: 1000}
}

// newTestApp builds the real app over a fresh in-memory database.
func newTestApp(t *testing.T, cfg config.Config) (*fiber.App, *sqlx.DB) {
	t.Helper()
	return newTestAppWithCache(t, cfg, nil)
}

func newTestAppWithCache(t *testing.T, cfg config.Config, store services.SettingsStore) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}
	return handlers.NewApp(cfg, handlers.NewDeps(db, cfg, auth, store)), db
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// client carries the sid and csrf cookies between requests like a browser.
type client struct {
	t    *testing.T
	app  *fiber.App
	sid  string
	csrf string
}

func newClient(t *testing.T, app *fiber.App) *client {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	tok := cookieValue(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return &client{t: t, app: app, csrf: tok}
}

func (cl *client) do(method, path, body string) (*http.Response, string) {
	cl.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: cl.csrf})
	req.Header.Set("X-Csrf-Token", cl.csrf)
	if cl.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: cl.sid})
	}
	resp, err := cl.app.Test(req, -1)
	if err != nil {
		cl.t.Fatalf("%s %s: %v", method, path, err)
	}
	if sid := cookieValue(resp, "sid"); sid != "" {
		cl.sid = sid
	}
	if tok := cookieValue(resp, "csrf_"); tok != "" {
		cl.csrf = tok
	}
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func (cl *client) login(email string) {
	cl.t.Helper()
	resp, body := cl.do("POST", "/login", `{"email":"`+email+`","password":"Passw0rd!"}`)
	if resp.StatusCode != http.StatusOK {
		cl.t.Fatalf("login %s: %d %s", email, resp.StatusCode, body)
	}
}

func decode(t *testing.T, body string, dst any) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
}

// observeLogs routes the app logger into memory for the rest of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(prev) })
	return logs
}

func hasAction(logs *observer.ObservedLogs, action string) bool {
	return logs.FilterMessage(action).Len() > 0
}
