package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoadUser(secret))
	chain := append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})
	r.GET("/", chain...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoadUser(t *testing.T) {
	r := newRouter()
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	w := do(r, signed(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future}))
	assert.Equal(t, "user-1", w.Body.String())

	w = do(r, signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future}))
	assert.Equal(t, "", w.Body.String())

	expired := jwt.NewNumericDate(time.Now().Add(-time.Hour))
	w = do(r, signed(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: expired}))
	assert.Equal(t, "", w.Body.String())

	w = do(r, signed(t, jwt.SigningMethodHS384, secret, jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future}))
	assert.Equal(t, "", w.Body.String())

	w = do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r := newRouter(AuthRequired())

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, signed(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "user-1"}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := newRouter(rl.Middleware())
	token := signed(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "user-1"})

	assert.Equal(t, http.StatusOK, do(r, token).Code)
	assert.Equal(t, http.StatusOK, do(r, token).Code)
	w := do(r, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Another caller has its own bucket.
	other := signed(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "user-2"})
	assert.Equal(t, http.StatusOK, do(r, other).Code)
}
