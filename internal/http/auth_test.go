package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"wedsnap/internal/repos"
)

// seeded passwords are stored as bcrypt hashes, never plaintext
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	logs := observeLogs(t)
	cl := newClient(t, app)

	resp, body := cl.do("POST", "/login", `{"email":"ayesha@wedsnap.test","password":"Wrongpass1!"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Invalid email or password") {
		t.Fatalf("unexpected body: %s", body)
	}
	if !hasAction(logs, "auth.login.fail") {
		t.Fatal("expected auth.login.fail log")
	}

	resp, _ = cl.do("GET", "/api/v1/me", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", resp.StatusCode)
	}

	cl.login("ayesha@wedsnap.test")
	if !hasAction(logs, "auth.login.success") {
		t.Fatal("expected auth.login.success log")
	}
	resp, body = cl.do("GET", "/api/v1/me", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"role":"SELLER"`) {
		t.Fatalf("me after login: %d %s", resp.StatusCode, body)
	}
	if strings.Contains(body, "password") || strings.Contains(body, "$2") {
		t.Fatalf("password hash leaked: %s", body)
	}

	resp, _ = cl.do("POST", "/logout", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}
	resp, _ = cl.do("GET", "/api/v1/me", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}

	// 2 attempts so far; the limiter allows 5 per window
	for i := 0; i < 3; i++ {
		cl.do("POST", "/login", `{"email":"ayesha@wedsnap.test","password":"Wrongpass1!"}`)
	}
	resp, _ = cl.do("POST", "/login", `{"email":"ayesha@wedsnap.test","password":"Passw0rd!"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
	if !hasAction(logs, "rate.login.hit") {
		t.Fatal("expected rate.login.hit log")
	}
}

func TestLoginRejectsMalformedInput(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	logs := observeLogs(t)
	cl := newClient(t, app)

	resp, _ := cl.do("POST", "/login", `{"email":"not-an-email","password":"Passw0rd!"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	resp, _ = cl.do("POST", "/login", `{"email":"sara@wedsnap.test","password":"short"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if logs.FilterMessage("auth.login.fail").Len() != 2 {
		t.Fatalf("expected two auth.login.fail entries, got %d", logs.FilterMessage("auth.login.fail").Len())
	}
}
