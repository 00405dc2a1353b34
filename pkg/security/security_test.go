package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.Any("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestKeyedRateLimiter(t *testing.T) {
	key := func(c *gin.Context) string { return c.GetHeader("X-User") }
	r := newRouter(KeyedRateLimiter("sync", 2, time.Minute, key))
	alice := http.Header{"X-User": {"alice"}}

	for i := 0; i < 2; i++ {
		if w := get(r, alice); w.Code != http.StatusOK {
			t.Fatalf("request %d code=%d", i, w.Code)
		}
	}
	w := get(r, alice)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request code=%d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("Retry-After=%q", got)
	}

	if w := get(r, http.Header{"X-User": {"bob"}}); w.Code != http.StatusOK {
		t.Fatalf("other key code=%d", w.Code)
	}
	for i := 0; i < 5; i++ {
		if w := get(r, nil); w.Code != http.StatusOK {
			t.Fatalf("empty key must not be limited, code=%d", w.Code)
		}
	}
}

func TestKeyedRateLimiterDisabled(t *testing.T) {
	r := newRouter(KeyedRateLimiter("sync", 0, time.Hour, ClientIPKey))
	for i := 0; i < 10; i++ {
		if w := get(r, nil); w.Code != http.StatusOK {
			t.Fatalf("code=%d", w.Code)
		}
	}
}

func TestVisitorStoreSweep(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := newVisitorStore(1, time.Minute)
	s.now = func() time.Time { return now }

	if !s.allow("a") || s.allow("a") {
		t.Fatalf("burst of 1 expected")
	}
	now = now.Add(2 * time.Minute)
	s.allow("b")
	now = now.Add(90 * time.Second)
	s.sweep()
	if _, ok := s.visitors["a"]; ok {
		t.Fatalf("idle visitor kept")
	}
	if _, ok := s.visitors["b"]; !ok {
		t.Fatalf("recent visitor dropped")
	}
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS([]string{"http://localhost:5173"}))

	w := get(r, http.Header{"Origin": {"http://localhost:5173"}})
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" || w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("allowed origin headers=%v", w.Header())
	}
	w = get(r, http.Header{"Origin": {"http://evil.example"}})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unknown origin allowed")
	}

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight code=%d", rec.Code)
	}
}
