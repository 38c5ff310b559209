package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*gin.Engine, *services.SessionService) {
	return newRouterWithConfig(t, services.SessionConfig{Secret: "mw-secret", TTL: time.Hour})
}

func newRouterWithConfig(t *testing.T, cfg services.SessionConfig) (*gin.Engine, *services.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := services.NewSessionService(cfg, services.NewCatalogService(nil), nil, zap.NewNop())
	t.Cleanup(sessions.Close)

	r := gin.New()
	r.Use(Logging(zap.NewNop()))
	r.GET("/whoami", SessionMiddleware(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).ID)
	})
	return r, sessions
}

func TestSessionMiddleware(t *testing.T) {
	r, sessions := newRouter(t)
	sess, token, _, err := sessions.Create()
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
			assert.Empty(t, w.Header().Get(RenewedTokenHeader), "fresh tokens are not renewed")
			if tc.code == http.StatusOK {
				assert.Equal(t, sess.ID, w.Body.String())
			}
		})
	}
}

func TestLoggingKeepsRequestID(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
}

func TestSessionMiddlewareRenewsTokenNearExpiry(t *testing.T) {
	r, sessions := newRouterWithConfig(t, services.SessionConfig{
		Secret:      "mw-secret",
		TTL:         time.Hour,
		RenewWithin: 2 * time.Hour,
	})
	sess, token, _, err := sessions.Create()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	renewed := w.Header().Get(RenewedTokenHeader)
	require.NotEmpty(t, renewed)
	assert.NotEmpty(t, w.Header().Get(RenewedExpiryHeader))

	got, err := sessions.Authenticate(renewed)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}
