package middleware

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/biyonik/admission-api/pkg/auth"
	testhelpers "github.com/biyonik/admission-api/pkg/testing"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func jwtConfig() *auth.JWTConfig {
	return &auth.JWTConfig{Secret: "middleware-secret", Issuer: "admission-api", AccessTTL: time.Minute, RefreshTTL: time.Hour}
}

func TestLoggingAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := Logging(log.New(&buf, "", 0))(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/shifts", nil))

	id := rec.Header().Get(RequestIDHeader)
	if len(id) != 16 {
		t.Errorf("request id = %q, want 16 hex chars", id)
	}
	if line := buf.String(); !strings.Contains(line, "GET /api/v1/shifts → 204") || !strings.Contains(line, id) {
		t.Errorf("unexpected log line %q", line)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "upstream-id" {
		t.Errorf("incoming request id not kept: %q", got)
	}
}

func TestPanicRecovery(t *testing.T) {
	var buf bytes.Buffer
	h := PanicRecovery(log.New(&buf, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	res := testhelpers.NewTestRequest("GET", "/").Send(h)
	res.AssertStatus(t, http.StatusInternalServerError).AssertJSONPath(t, "success", false)
	if strings.Contains(res.GetBody(), "boom") {
		t.Error("panic value leaked to the client")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Error("panic was not logged")
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://apply.college.edu.pk"})(ok)

	req := httptest.NewRequest("OPTIONS", "/api/v1/admissions", nil)
	req.Header.Set("Origin", "https://apply.college.edu.pk")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://apply.college.edu.pk" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest("GET", "/api/v1/catalog", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin allowed: %q", got)
	}
}

func TestAuthAndRole(t *testing.T) {
	cfg := jwtConfig()
	staff := &auth.AuthenticatedUser{ID: 3, Email: "staff@college.edu.pk", Role: "staff"}
	pair, err := auth.IssueTokenPair(staff, cfg)
	if err != nil {
		t.Fatal(err)
	}

	guarded := Chain(ok, Auth(auth.NewJWTGuard(cfg)), Role("admin", "staff"))
	adminOnly := Chain(ok, Auth(auth.NewJWTGuard(cfg)), Role("admin"))

	tests := []struct {
		name    string
		handler http.Handler
		header  string
		want    int
	}{
		{"missing token", guarded, "", http.StatusUnauthorized},
		{"garbage token", guarded, "Bearer nope", http.StatusUnauthorized},
		{"refresh token", guarded, "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"staff allowed", guarded, "Bearer " + pair.AccessToken, http.StatusNoContent},
		{"staff on admin route", adminOnly, "Bearer " + pair.AccessToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testhelpers.NewTestRequest("GET", "/api/v1/admin/admissions")
			if tt.header != "" {
				req.WithHeader("Authorization", tt.header)
			}
			req.Send(tt.handler).AssertStatus(t, tt.want)
		})
	}
}

func TestRoleWithoutAuthIsUnauthorized(t *testing.T) {
	testhelpers.NewTestRequest("GET", "/").Send(Role("admin")(ok)).AssertStatus(t, http.StatusUnauthorized)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2, 0)
	defer rl.Close()

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Middleware(log.New(&bytes.Buffer{}, "", 0))(ok)
	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/v1/admissions", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}

	rec := send("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}

	if rec := send("10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Errorf("other client limited: %d", rec.Code)
	}

	now = now.Add(time.Second)
	if rec := send("10.0.0.1"); rec.Code != http.StatusNoContent {
		t.Errorf("after refill status = %d", rec.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1, 0)
	defer rl.Close()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("10.0.0.9")

	now = now.Add(11 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.visitors) != 0 {
		t.Errorf("idle visitor not evicted: %d left", len(rl.visitors))
	}
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	h := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", strings.NewReader("0123456789")))
	if readErr == nil {
		t.Error("body over the limit should fail to read")
	}
}
