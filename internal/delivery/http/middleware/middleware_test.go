package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/internal/domain"
	"koryob-backend/pkg/apperror"
	"koryob-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { response.Success(c, http.StatusOK, "ok", nil) })

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, decode(t, w).RequestID)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", decode(t, w).RequestID)
	})
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"app error keeps its code", apperror.BadRequest("bad input"), http.StatusBadRequest, "bad input"},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict, "A user with this email already exists."},
		{"unknown user", domain.ErrUserNotFound, http.StatusNotFound, "User not found."},
		{"wrong password", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect password."},
		{"wrapped sentinel", fmt.Errorf("login: %w", domain.ErrJobNotFound), http.StatusNotFound, "Job not found."},
		{"session write failed", fmt.Errorf("%w: timeout", domain.ErrSessionUnavailable), http.StatusServiceUnavailable, "Your session could not be saved. Please try again."},
		{"internal details are hidden", errors.New("pq: connection reset"), http.StatusInternalServerError, "An unexpected error occurred. Please try again later."},
		{"internal app error is hidden", apperror.Internal(errors.New("disk")), http.StatusInternalServerError, "An unexpected error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.code, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.msg, body.Message)
		})
	}
}

func identityRouter(tokens *auth.ClientTokens) *gin.Engine {
	r := gin.New()
	r.Use(ClientIdentity(tokens, false))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, domain.ClientIDFromContext(c.Request.Context()))
	})
	return r
}

func TestClientIdentity(t *testing.T) {
	tokens := auth.NewClientTokens("secret", time.Hour)
	r := identityRouter(tokens)

	t.Run("mints a client when no token is sent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		token := w.Header().Get(ClientTokenHeader)
		require.NotEmpty(t, token)

		clientID, err := tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, clientID, w.Body.String())

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, ClientTokenCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("reuses the client from a cookie", func(t *testing.T) {
		token, err := tokens.Sign("client-42")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ClientTokenCookie, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "client-42", w.Body.String())
		assert.Empty(t, w.Header().Get(ClientTokenHeader))
	})

	t.Run("reuses the client from a bearer header", func(t *testing.T) {
		token, err := tokens.Sign("client-7")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "client-7", w.Body.String())
	})

	t.Run("replaces a tampered token", func(t *testing.T) {
		forged, err := auth.NewClientTokens("attacker", time.Hour).Sign("client-42")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ClientTokenCookie, Value: forged})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "client-42", w.Body.String())
		assert.NotEmpty(t, w.Header().Get(ClientTokenHeader))
	})
}

// stubAuth serves a fixed session; other methods are unused here.
type stubAuth struct {
	domain.AuthUsecase
	session domain.Session
}

func (s stubAuth) CurrentSession(context.Context) domain.Session { return s.session }

func TestRequireAuth(t *testing.T) {
	employer := &domain.User{ID: "user-1", AccountType: domain.AccountEmployer}
	seeker := &domain.User{ID: "user-2", AccountType: domain.AccountSeeker}

	newRouter := func(session domain.Session) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/me", RequireAuth(stubAuth{session: session}), func(c *gin.Context) {
			c.String(http.StatusOK, CurrentUser(c).ID)
		})
		r.POST("/jobs", RequireAuth(stubAuth{session: session}), RequireEmployer(), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return r
	}

	tests := []struct {
		name    string
		session domain.Session
		method  string
		path    string
		code    int
	}{
		{"anonymous is rejected", domain.Session{Status: domain.SessionAnonymous}, http.MethodGet, "/me", http.StatusUnauthorized},
		{"unreadable session is unavailable", domain.Session{Status: domain.SessionUnknown}, http.MethodGet, "/me", http.StatusServiceUnavailable},
		{"authenticated passes", domain.Session{Status: domain.SessionAuthenticated, User: seeker}, http.MethodGet, "/me", http.StatusOK},
		{"seeker cannot post jobs", domain.Session{Status: domain.SessionAuthenticated, User: seeker}, http.MethodPost, "/jobs", http.StatusForbidden},
		{"employer can post jobs", domain.Session{Status: domain.SessionAuthenticated, User: employer}, http.MethodPost, "/jobs", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(tt.session).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterLocal(t *testing.T) {
	rl := NewRateLimiter(AuthRateLimitConfig(1, 2), nil)
	defer rl.Stop()
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, post(r, "/login", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, post(r, "/login", "10.0.0.1").Code)

	w := post(r, "/login", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, post(r, "/login", "10.0.0.2").Code, "limits are per IP")
}

type fakeScripter struct {
	counts map[string]int64
	err    error
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *goredis.Cmd {
	if f.err != nil {
		return goredis.NewCmdResult(nil, f.err)
	}
	f.counts[keys[0]]++
	return goredis.NewCmdResult([]interface{}{f.counts[keys[0]], int64(42)}, nil)
}

func (f *fakeScripter) EvalSha(context.Context, string, []string, ...interface{}) *goredis.Cmd {
	return nil
}

func (f *fakeScripter) EvalRO(context.Context, string, []string, ...interface{}) *goredis.Cmd {
	return nil
}

func (f *fakeScripter) EvalShaRO(context.Context, string, []string, ...interface{}) *goredis.Cmd {
	return nil
}

func (f *fakeScripter) ScriptExists(context.Context, ...string) *goredis.BoolSliceCmd {
	return nil
}

func (f *fakeScripter) ScriptLoad(context.Context, string) *goredis.StringCmd {
	return nil
}

func TestRateLimiterRedis(t *testing.T) {
	t.Run("counts in redis", func(t *testing.T) {
		scripter := &fakeScripter{counts: map[string]int64{}}
		rl := NewRateLimiter(AuthRateLimitConfig(2, 2), scripter)
		defer rl.Stop()
		r := limitedRouter(rl)

		assert.Equal(t, http.StatusOK, post(r, "/login", "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, post(r, "/login", "10.0.0.1").Code)
		w := post(r, "/login", "10.0.0.1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "42", w.Header().Get("Retry-After"))
		assert.Equal(t, int64(3), scripter.counts["rl:auth:10.0.0.1"])
	})

	t.Run("falls back to local buckets when redis fails", func(t *testing.T) {
		rl := NewRateLimiter(AuthRateLimitConfig(1, 1), &fakeScripter{err: errors.New("redis down")})
		defer rl.Stop()
		r := limitedRouter(rl)

		assert.Equal(t, http.StatusOK, post(r, "/login", "10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, post(r, "/login", "10.0.0.1").Code)
	})

	t.Run("fails closed when asked to", func(t *testing.T) {
		cfg := AuthRateLimitConfig(1, 1)
		cfg.FailClosed = true
		rl := NewRateLimiter(cfg, &fakeScripter{err: errors.New("redis down")})
		defer rl.Stop()

		assert.Equal(t, http.StatusServiceUnavailable, post(limitedRouter(rl), "/login", "10.0.0.1").Code)
	})
}

func TestCSRFMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(), CSRFMiddleware(false))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	csrf := cookies[0]
	assert.Equal(t, CSRFTokenCookieName, csrf.Name)
	assert.False(t, csrf.HttpOnly)

	send := func(header string, bearer bool) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: csrf.Value})
		if header != "" {
			req.Header.Set(CSRFTokenHeaderName, header)
		}
		if bearer {
			req.Header.Set("Authorization", "Bearer token")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, send("", false))
	assert.Equal(t, http.StatusForbidden, send("wrong", false))
	assert.Equal(t, http.StatusOK, send(csrf.Value, false))
	assert.Equal(t, http.StatusOK, send("", true))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://koryob.tj"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://koryob.tj")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://koryob.tj", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = preflight("https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

type statusRecorder struct {
	codes []int
}

func (s *statusRecorder) RecordStoreOperation(string, string) {}
func (s *statusRecorder) RecordStorageError(string, string)   {}
func (s *statusRecorder) RecordHTTPStatus(code int)           { s.codes = append(s.codes, code) }

func TestMetricsAndSecurityHeaders(t *testing.T) {
	rec := &statusRecorder{}
	r := gin.New()
	r.Use(Metrics(rec), SecurityHeadersMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, rec.codes)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
