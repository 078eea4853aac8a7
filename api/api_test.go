package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpupo63/designer-portfolio-backend/database"
	"github.com/rpupo63/designer-portfolio-backend/models"
	"github.com/rpupo63/designer-portfolio-backend/services"
)

const testUserAgent = "portfolio-test/1.0"

type testEnv struct {
	t      *testing.T
	router http.Handler
	store  *database.MemStorage
	auth   *services.AuthService
}

// newTestEnv builds a router over an empty memory store. cfg entries override
// the test defaults.
func newTestEnv(t *testing.T, cfg map[string]string, uploader Uploader) *testEnv {
	t.Helper()

	c := map[string]string{
		"ACCEPTED_ORIGINS":     "https://admin.example.com",
		"LIKE_RATE_PER_MINUTE": "1000",
		"COOKIE_SECURE":        "false",
	}
	for k, v := range cfg {
		c[k] = v
	}

	store := database.NewMemStorage()
	auth, err := services.NewAuthService(store, services.AuthConfig{
		Secret:            "test-secret",
		AllowRegistration: c["ALLOW_REGISTRATION"] == "true",
	})
	require.NoError(t, err)

	deps := Dependencies{
		Projects: services.NewProjectService(store),
		Auth:     auth,
		Uploader: uploader,
	}
	return &testEnv{
		t:      t,
		router: newRouter(deps, withConfig(c)),
		store:  store,
		auth:   auth,
	}
}

// user seeds an account and returns it with a bearer token.
func (e *testEnv) user(username string) (*models.User, string) {
	e.t.Helper()
	u, err := e.auth.SeedOwner(context.Background(), services.RegisterInput{
		Username: username,
		Password: "correct horse battery",
		Name:     username + " name",
	})
	require.NoError(e.t, err)
	token, err := e.auth.IssueToken(u.ID)
	require.NoError(e.t, err)
	return u, token
}

// do sends body as JSON. An empty token sends an anonymous request.
func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func validProject() map[string]any {
	return map[string]any{
		"title":         "Brand refresh",
		"description":   "Identity system for a coffee roaster",
		"imageUrl":      "https://cdn.example.com/cover.png",
		"galleryImages": []string{"https://cdn.example.com/1.png", "https://cdn.example.com/2.png"},
		"category":      "Branding",
		"tags":          []string{"Logo", "Print"},
	}
}
