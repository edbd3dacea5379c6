package interceptors

import (
	"crypto/ed25519"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(pub ed25519.PublicKey) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", JWSMiddleware(pub), func(c *gin.Context) {
		identity := GetIdentity(c)
		c.JSON(http.StatusOK, identity)
	})
	return router
}

func doGet(router *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWSMiddlewareAcceptsValidToken(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	router := newTestRouter(pub)

	token, err := GenerateJWSToken(priv, "bob-id", "bob@gmail.com", time.Hour)
	require.NoError(t, err)

	w := doGet(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sub":"bob-id","email":"bob@gmail.com"}`, w.Body.String())
}

func TestJWSMiddlewareRejects(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	_, otherPriv, _ := ed25519.GenerateKey(nil)
	router := newTestRouter(pub)

	foreign, _ := GenerateJWSToken(otherPriv, "bob-id", "bob@gmail.com", time.Hour)
	expired, _ := GenerateJWSToken(priv, "bob-id", "bob@gmail.com", -time.Hour)
	noEmail, _ := GenerateJWSToken(priv, "bob-id", "", time.Hour)
	valid, _ := GenerateJWSToken(priv, "bob-id", "bob@gmail.com", time.Hour)

	for name, auth := range map[string]string{
		"missing":      "",
		"garbage":      "Bearer not.a.token",
		"foreign":      "Bearer " + foreign,
		"expired":      "Bearer " + expired,
		"email-less":   "Bearer " + noEmail,
		"no-scheme":    valid,
		"basic-scheme": "Basic " + valid,
		"lowercase":    "bearer " + valid,
		"empty-bearer": "Bearer ",
	} {
		w := doGet(router, auth)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Contains(t, w.Body.String(), `"kind":"unauthorized"`, name)
	}
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", RateLimitMiddleware(nil, 1), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
