package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwmail/lpaste/internal/config"
	"github.com/johnwmail/lpaste/internal/handlers"
	"github.com/johnwmail/lpaste/internal/highlight"
	"github.com/johnwmail/lpaste/internal/models"
	"github.com/johnwmail/lpaste/internal/session"
	"github.com/johnwmail/lpaste/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.MemoryStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.StorageType = "memory"

	store := storage.NewMemoryStorage()
	sessions, err := session.NewMemoryStore(cfg.SessionCacheSize, cfg.SessionTTL)
	require.NoError(t, err)

	router, err := NewRouter(Deps{
		Config:   cfg,
		Storage:  store,
		Sessions: sessions,
		Renderer: highlight.New(cfg.HighlightStyle),
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return router, store
}

// client replays cookies between requests like a browser would.
type client struct {
	router http.Handler
	jar    map[string]*http.Cookie
}

func newClient(router http.Handler) *client {
	return &client{router: router, jar: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.jar {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.jar[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func TestPasteLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	c := newClient(router)

	form := url.Values{"content": {"print(1)"}, "language": {"Python"}, "poster": {"a"}, "title": {"t"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := c.do(req)
	require.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	require.NotEmpty(t, loc)

	w = c.get(loc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<div class="source">`)
	assert.Contains(t, w.Body.String(), "print")

	w = c.get(loc + "/plain")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "print(1)", w.Body.String())

	w = c.get(loc + "/html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `style="`)

	w = c.get(loc + "/delete")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), handlers.DeletedMessage)

	w = c.get("/")
	assert.NotContains(t, w.Body.String(), handlers.DeletedMessage)

	w = c.get(loc)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/some-id"},
		{http.MethodPost, "/some-id/plain"},
		{http.MethodDelete, "/"},
		{http.MethodPut, "/some-id/delete"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestNotFoundPage(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/missing", "/missing/html", "/a/b/c/d"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestUnsupportedLanguageIsServerError(t *testing.T) {
	router, store := newTestRouter(t)
	id, err := store.Create(context.Background(), &models.Paste{
		Content: "x", Language: "Unknown-Lang", Poster: "p", Title: "t", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+id, nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), w.Body.String())
}

func TestSystemRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"lpaste"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lpaste_http_request_duration_seconds")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".source")
}

func TestMetricsDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.DefaultConfig()
	cfg.EnableMetrics = false

	sessions, err := session.NewMemoryStore(10, time.Hour)
	require.NoError(t, err)
	router, err := NewRouter(Deps{
		Config:   cfg,
		Storage:  storage.NewMemoryStorage(),
		Sessions: sessions,
		Renderer: highlight.New(cfg.HighlightStyle),
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResponseHeaders(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	const id = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, id)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(recovery(zerolog.Nop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())
}

func TestErrorResponder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(errorResponder())
	r.GET("/unset", func(c *gin.Context) {
		_ = c.Error(models.NewStorageError("get", assert.AnError))
	})
	r.GET("/set", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusBadRequest, assert.AnError)
	})
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.String(http.StatusTeapot, "short and stout")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unset", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Service Unavailable", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bad Request", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}), zerolog.Nop())
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_BadAddress(t *testing.T) {
	err := Run(context.Background(), "127.0.0.1:-1", http.NotFoundHandler(), zerolog.Nop())
	assert.Error(t, err)
}

func TestNewApp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.DefaultConfig()
	cfg.StorageType = "memory"

	app, err := NewApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_BadSessionStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StorageType = "memory"
	cfg.SessionStore = "redis"
	cfg.RedisURL = "::not a url::"

	_, err := NewApp(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "session store")
}
