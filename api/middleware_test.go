package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	generated := rec.Header().Get(requestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, incoming)
	assert.Equal(t, incoming, env.serve(req).Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "<script>")
	assert.NotEqual(t, "<script>", env.serve(req).Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := env.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = env.serve(req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = env.serve(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogInternalServerErrorsRecoversPanics(t *testing.T) {
	handler := RequestID(LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestSessionToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, sessionToken(req))

	req.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", sessionToken(req))

	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", sessionToken(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, sessionToken(req))
}

func TestVisitorFingerprint(t *testing.T) {
	newReq := func(remoteAddr, forwarded, userAgent string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		req.Header.Set("User-Agent", userAgent)
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		return req
	}

	base := visitorFingerprint(newReq("10.0.0.1:5000", "", "ua"))
	assert.Len(t, base, 64)

	// the port does not identify a visitor
	assert.Equal(t, base, visitorFingerprint(newReq("10.0.0.1:6000", "", "ua")))
	assert.NotEqual(t, base, visitorFingerprint(newReq("10.0.0.2:5000", "", "ua")))
	assert.NotEqual(t, base, visitorFingerprint(newReq("10.0.0.1:5000", "", "other-ua")))

	// forwarded headers mean nothing until RealIP vouches for them
	assert.NotEqual(t, base, visitorFingerprint(newReq("172.16.0.9:443", "10.0.0.1", "ua")))

	var proxied string
	realIP := RealIP(parseTrustedProxies([]string{"172.16.0.0/12"}))
	realIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = visitorFingerprint(r)
	})).ServeHTTP(httptest.NewRecorder(), newReq("172.16.0.9:443", "10.0.0.1", "ua"))
	assert.Equal(t, base, proxied)
}

func TestRealIP(t *testing.T) {
	trusted := parseTrustedProxies([]string{"172.16.0.0/12", "203.0.113.7", "not-an-ip"})
	require.Len(t, trusted, 2)

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  []string
		want       string
	}{
		{"direct peer", "198.51.100.4:5000", nil, "198.51.100.4"},
		{"untrusted peer cannot forward", "198.51.100.4:5000", []string{"10.0.0.1"}, "198.51.100.4"},
		{"trusted proxy forwards", "172.16.0.9:443", []string{"10.0.0.1"}, "10.0.0.1"},
		{"spoofed leftmost hop ignored", "172.16.0.9:443", []string{"1.2.3.4, 10.0.0.1"}, "10.0.0.1"},
		{"proxy chain skipped", "172.16.0.9:443", []string{"10.0.0.1, 203.0.113.7, 172.16.3.3"}, "10.0.0.1"},
		{"repeated headers", "172.16.0.9:443", []string{"9.9.9.9", "10.0.0.1"}, "10.0.0.1"},
		{"only proxies", "172.16.0.9:443", []string{"172.16.3.3"}, "172.16.3.3"},
		{"garbage hop", "172.16.0.9:443", []string{"10.0.0.1, junk"}, "172.16.0.9"},
		{"no header from proxy", "172.16.0.9:443", nil, "172.16.0.9"},
		{"bare remote addr", "198.51.100.4", nil, "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for _, v := range tt.forwarded {
				req.Header.Add("X-Forwarded-For", v)
			}

			var got string
			RealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = clientIP(r)
			})).ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVisitorLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newVisitorLimiter(2)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.allow("a")
	assert.True(t, ok)
	ok, _ = limiter.allow("a")
	assert.True(t, ok)

	ok, retryAfter := limiter.allow("a")
	assert.False(t, ok)
	assert.InDelta(t, 30*time.Second, retryAfter, float64(time.Second))

	ok, _ = limiter.allow("b")
	assert.True(t, ok)

	now = now.Add(30 * time.Second)
	ok, _ = limiter.allow("a")
	assert.True(t, ok)

	// idle visitors are dropped on the next sweep
	now = now.Add(visitorIdleTTL + time.Minute)
	limiter.allow("c")
	assert.NotContains(t, limiter.visitors, "a")
	assert.NotContains(t, limiter.visitors, "b")
	assert.Contains(t, limiter.visitors, "c")
}

func TestHealthzAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Status)

	env.serve(httptest.NewRequest(http.MethodGet, "/api/projects/7", nil))

	rec = env.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `portfolio_http_requests_total{method="GET",route="/api/projects/{projectID}",status="404"} 1`)
	assert.Contains(t, body, `route="/healthz"`)
}
