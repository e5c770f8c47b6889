package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/userhub/internal/auth"
	"github.com/userhub/userhub/internal/observability"
	"github.com/userhub/userhub/internal/pages"
	"github.com/userhub/userhub/internal/platform/db"
	"github.com/userhub/userhub/internal/users"
	"github.com/userhub/userhub/internal/view"
	"github.com/userhub/userhub/jobs"
)

type testServer struct {
	handler http.Handler
	mr      *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	cfg := &Config{AppEnv: "test", AppTitle: "MERN Skeleton", AppRequestTimeout: 5 * time.Second, RateLimitPerMinute: 1000}

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	usersService := users.NewService(users.NewCachedRepository(users.NewSQLRepository(conn), client, time.Minute), nil)
	authService := auth.NewService(usersService, auth.NewIssuer("test-secret", time.Hour), auth.NewRevocationStore(client, time.Hour))
	guard := auth.Middleware{Service: authService}

	templates, err := view.NewEngine(view.DefaultTheme())
	require.NoError(t, err)
	assets, err := pages.Assets("")
	require.NoError(t, err)

	handler := NewRouter(RouterParams{
		Config:         cfg,
		AuthHandler:    auth.NewHandler(nil, authService, false),
		AuthMiddleware: guard,
		UsersHandler:   users.NewHandler(nil, usersService, guard),
		PagesHandler:   pages.NewHandler(nil, templates, usersService, cfg.AppTitle),
		JobHandler:     jobs.NewHandler(nil, nil),
		Assets:         assets,
		Metrics:        observability.NewMetrics(),
	})
	return &testServer{handler: handler, mr: mr}
}

type call struct {
	method, path, body, token string
	cookie                    *http.Cookie
	header                    map[string]string
}

func (s *testServer) do(c call) *httptest.ResponseRecorder {
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func tokenCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(call{method: http.MethodPost, path: "/api/users", body: `{"name":"Ann","email":"ann@example.com","password":"secret1"}`})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Successfully signed up!"}`, rr.Body.String())

	rr = s.do(call{method: http.MethodPost, path: "/auth/signin", body: `{"email":"ann@example.com","password":"secret1"}`})
	require.Equal(t, http.StatusOK, rr.Code)
	var signin auth.SigninResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &signin))
	cookie := tokenCookie(rr)
	require.NotNil(t, cookie)
	userPath := "/api/users/" + signin.User.ID

	rr = s.do(call{method: http.MethodGet, path: userPath, token: signin.Token})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"ann@example.com"`)
	assert.NotContains(t, rr.Body.String(), "hashed_password")

	rr = s.do(call{method: http.MethodGet, path: "/user/" + signin.User.ID, cookie: cookie})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-action="delete-user"`)
	assert.Contains(t, rr.Body.String(), "My Profile")

	rr = s.do(call{method: http.MethodPut, path: userPath, token: signin.Token, body: `{"name":"Annie"}`})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Annie"`)

	rr = s.do(call{method: http.MethodGet, path: "/auth/signout", cookie: cookie})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"signed out"}`, rr.Body.String())

	rr = s.do(call{method: http.MethodGet, path: userPath, token: signin.Token})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"UnauthorizedError: jwt revoked"}`, rr.Body.String())

	rr = s.do(call{method: http.MethodGet, path: "/user/edit/" + signin.User.ID, cookie: cookie})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/signin", rr.Header().Get("Location"))
}

func TestUnauthorizedAPIAccess(t *testing.T) {
	s := newTestServer(t)
	s.do(call{method: http.MethodPost, path: "/api/users", body: `{"name":"Ann","email":"ann@example.com","password":"secret1"}`})
	rr := s.do(call{method: http.MethodGet, path: "/api/users"})
	require.Equal(t, http.StatusOK, rr.Code)
	var list []users.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rr = s.do(call{method: http.MethodDelete, path: "/api/users/" + list[0].ID, token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), `{"error":"UnauthorizedError: `))
}

func TestInfrastructureRoutes(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(call{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = s.do(call{method: http.MethodGet, path: "/jobs/health"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0}`, rr.Body.String())

	rr = s.do(call{method: http.MethodGet, path: "/dist/js/bundle.js"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))

	rr = s.do(call{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `userhub_http_requests_total{code="200",method="GET",route="/dist/*"} 1`)
}

func TestSecurityHeadersAndNotFound(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(call{method: http.MethodGet, path: "/nowhere"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page Not Found")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(call{method: http.MethodOptions, path: "/api/users", header: map[string]string{
		"Origin":                        "http://localhost:8080",
		"Access-Control-Request-Method": http.MethodPost,
	}})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
