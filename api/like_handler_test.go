package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/designer-portfolio-backend/models"
	"github.com/rpupo63/designer-portfolio-backend/services"
)

func likeRequest(method, path, userAgent string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("User-Agent", userAgent)
	return req
}

func TestLikeFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.user("ana")
	created := decode[models.ProjectWithTags](t, env.do(http.MethodPost, "/api/projects", validProject(), token))
	path := fmt.Sprintf("/api/projects/%d/like", created.ID)

	state := func(rec *httptest.ResponseRecorder) services.LikeState {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[services.LikeState](t, rec)
	}

	assert.Equal(t, services.LikeState{Liked: false, LikesCount: 0}, state(env.serve(likeRequest(http.MethodGet, path, "browser-a"))))
	assert.Equal(t, services.LikeState{Liked: true, LikesCount: 1}, state(env.serve(likeRequest(http.MethodPost, path, "browser-a"))))
	// repeat likes from the same visitor do not count twice
	assert.Equal(t, services.LikeState{Liked: true, LikesCount: 1}, state(env.serve(likeRequest(http.MethodPost, path, "browser-a"))))
	assert.Equal(t, services.LikeState{Liked: true, LikesCount: 2}, state(env.serve(likeRequest(http.MethodPost, path, "browser-b"))))

	assert.Equal(t, services.LikeState{Liked: true, LikesCount: 2}, state(env.serve(likeRequest(http.MethodGet, path, "browser-b"))))

	assert.Equal(t, services.LikeState{Liked: false, LikesCount: 1}, state(env.serve(likeRequest(http.MethodDelete, path, "browser-a"))))
	assert.Equal(t, services.LikeState{Liked: false, LikesCount: 1}, state(env.serve(likeRequest(http.MethodDelete, path, "browser-a"))))

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_like_events_total{action="like"} 2`)
	assert.Contains(t, rec.Body.String(), `portfolio_like_events_total{action="unlike"} 1`)
}

func TestLikeUnknownProject(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := env.serve(likeRequest(method, "/api/projects/42/like", "browser-a"))
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestLikesAreRateLimitedPerAddress(t *testing.T) {
	env := newTestEnv(t, map[string]string{"LIKE_RATE_PER_MINUTE": "2"}, nil)
	_, token := env.user("ana")
	created := decode[models.ProjectWithTags](t, env.do(http.MethodPost, "/api/projects", validProject(), token))
	path := fmt.Sprintf("/api/projects/%d/like", created.ID)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, env.serve(likeRequest(http.MethodPost, path, "browser-a")).Code)
	}

	rec := env.serve(likeRequest(http.MethodPost, path, "browser-a"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.True(t, strings.Contains(decode[ErrorResponse](t, rec).Error, "rate limit"))

	// a new user agent from the same address shares the budget
	assert.Equal(t, http.StatusTooManyRequests, env.serve(likeRequest(http.MethodPost, path, "browser-b")).Code)

	// another address has its own budget
	other := likeRequest(http.MethodPost, path, "browser-a")
	other.RemoteAddr = "198.51.100.20:4000"
	assert.Equal(t, http.StatusOK, env.serve(other).Code)

	// the rest of the API is not limited
	assert.Equal(t, http.StatusOK, env.serve(likeRequest(http.MethodGet, "/api/projects", "browser-a")).Code)
}

func TestForwardedHeadersDoNotResetLikeBudget(t *testing.T) {
	env := newTestEnv(t, map[string]string{"LIKE_RATE_PER_MINUTE": "2"}, nil)
	_, token := env.user("ana")
	created := decode[models.ProjectWithTags](t, env.do(http.MethodPost, "/api/projects", validProject(), token))
	path := fmt.Sprintf("/api/projects/%d/like", created.ID)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := likeRequest(http.MethodPost, path, fmt.Sprintf("browser-%d", i))
		req.RemoteAddr = "198.51.100.30:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.9.0.%d", i))
		codes = append(codes, env.serve(req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestTrustedProxyForwardsVisitorAddress(t *testing.T) {
	env := newTestEnv(t, map[string]string{"LIKE_RATE_PER_MINUTE": "1", "TRUSTED_PROXIES": "10.1.0.0/16"}, nil)
	_, token := env.user("ana")
	created := decode[models.ProjectWithTags](t, env.do(http.MethodPost, "/api/projects", validProject(), token))
	path := fmt.Sprintf("/api/projects/%d/like", created.ID)

	like := func(visitor string) int {
		req := likeRequest(http.MethodPost, path, "browser-a")
		req.RemoteAddr = "10.1.0.5:443"
		req.Header.Set("X-Forwarded-For", visitor)
		return env.serve(req).Code
	}

	assert.Equal(t, http.StatusOK, like("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, like("198.51.100.1"))
	// behind the proxy each visitor address is budgeted separately
	assert.Equal(t, http.StatusOK, like("198.51.100.2"))

	// and each one is its own liker
	state := decode[services.LikeState](t, env.serve(likeRequest(http.MethodGet, path, "browser-a")))
	assert.Equal(t, 2, state.LikesCount)
}
