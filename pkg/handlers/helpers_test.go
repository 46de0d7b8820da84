package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"cms-console/pkg/config"
	"cms-console/pkg/models"
	"cms-console/pkg/services"
	"cms-console/pkg/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend records every call it receives before delegating to handle.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []string
	handle http.HandlerFunc
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, strings.TrimSpace(r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api/v1")+" "+r.Header.Get("Authorization")))
	b.mu.Unlock()
	b.handle(w, r)
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// testApp is a console wired to a fake backend, driven through a client
// that keeps cookies between requests.
type testApp struct {
	t       *testing.T
	router  *gin.Engine
	backend *fakeBackend
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T, handle http.HandlerFunc) *testApp {
	t.Helper()
	backend := &fakeBackend{handle: handle}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	registry, err := config.LoadResources("")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := services.NewClient(srv.URL+"/api/v1", 5*time.Second, log)
	h := New(client, registry, 10, log)

	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("test-secret"))))
	r.SetHTMLTemplate(views.Templates())
	r.GET("/test/login", func(c *gin.Context) {
		startSession(c, models.Admin{Token: "tok", Username: "admin"})
		h.saveSession(c)
		c.Status(http.StatusNoContent)
	})
	h.Register(r)

	return &testApp{t: t, router: r, backend: backend, cookies: map[string]*http.Cookie{}}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		a.cookies[c.Name] = c
	}
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) signIn() {
	a.t.Helper()
	w := a.get("/test/login")
	require.Equal(a.t, http.StatusNoContent, w.Code)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
