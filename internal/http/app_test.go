package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"invdash/internal/config"
	"invdash/internal/domain"
	"invdash/internal/events"
	"invdash/internal/http/handlers"
	applog "invdash/internal/log"
	"invdash/internal/repos"
	"invdash/internal/services"
)

type testApp struct {
	app    *fiber.App
	db     *sqlx.DB
	deps   *handlers.Deps
	events *events.Memory
	csrf   string
}

// newTestApp wires the real routes over an in-memory database, with the
// same middleware order as the server.
func newTestApp(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	authSvc := services.NewAuthService(repos.NewUserRepo(db), repos.NewDBSessionStore(db))
	pub := &events.Memory{}

	app := fiber.New(fiber.Config{
		Views: handlers.NewEngine("../../web/templates"),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.AttachSession(authSvc))
	app.Use(limiter.New(limiter.Config{Max: 100, Expiration: time.Minute}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))

	deps := handlers.NewDeps(db, cfg, authSvc, pub)
	deps.Register(app, handlers.LoginLimit(3, time.Minute))

	ta := &testApp{app: app, db: db, deps: deps, events: pub}

	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	ta.csrf = extractCookie(resp, "csrf_")
	if ta.csrf == "" {
		t.Fatal("csrf token missing")
	}
	return ta
}

// signIn binds sid to one of the seeded accounts without going through the form.
func (a *testApp) signIn(t *testing.T, sid, userID string) {
	t.Helper()
	store := repos.NewDBSessionStore(a.db)
	if err := store.Bind(context.Background(), sid, &domain.Session{ID: userID}); err != nil {
		t.Fatalf("bind session: %v", err)
	}
}

func (a *testApp) get(t *testing.T, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func (a *testApp) post(t *testing.T, path, sid string, form url.Values) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", a.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: a.csrf})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func (a *testApp) productID(t *testing.T, name string) int64 {
	t.Helper()
	var id int64
	if err := a.db.Get(&id, `SELECT id FROM products WHERE name = ?`, name); err != nil {
		t.Fatalf("lookup %q: %v", name, err)
	}
	return id
}

func (a *testApp) productCount(t *testing.T) int {
	t.Helper()
	var n int
	if err := a.db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		t.Fatal(err)
	}
	return n
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	User   string         `json:"user"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
