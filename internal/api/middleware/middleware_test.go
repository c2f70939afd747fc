package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/pkg/auth"
)

func init() { gin.SetMode(gin.TestMode) }

type admins map[string]bool

func (a admins) IsAdmin(_ context.Context, id string) (bool, error) {
	if id == "broken" {
		return false, errors.New("db down")
	}
	return a[id], nil
}

func serve(r *gin.Engine, userID string) int {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if userID != "" {
		tok, _ := auth.Issue("s", userID, "", "", time.Minute)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthAndRequireAdmin(t *testing.T) {
	v := auth.NewVerifier("s", "", "")
	r := gin.New()
	r.GET("/x", Auth(v, "", true), RequireAdmin(admins{"root": true}), func(c *gin.Context) {
		c.String(http.StatusOK, ActorID(c))
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, ""))
	assert.Equal(t, http.StatusForbidden, serve(r, "alice"))
	assert.Equal(t, http.StatusInternalServerError, serve(r, "broken"))
	assert.Equal(t, http.StatusOK, serve(r, "root"))
}

func TestOptionalAuthIsAnonymous(t *testing.T) {
	v := auth.NewVerifier("s", "", "")
	r := gin.New()
	var seen string
	r.GET("/x", Auth(v, "", false), func(c *gin.Context) {
		seen = ActorID(c)
		c.Status(http.StatusNoContent)
	})

	require.Equal(t, http.StatusNoContent, serve(r, ""))
	assert.Empty(t, seen)
	require.Equal(t, http.StatusNoContent, serve(r, "alice"))
	assert.Equal(t, "alice", seen)
}

func TestRateLimiterPerActor(t *testing.T) {
	v := auth.NewVerifier("s", "", "")
	r := gin.New()
	r.GET("/x", Auth(v, "", false), NewRateLimiter(0.001, 2).Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, "alice"))
	assert.Equal(t, http.StatusOK, serve(r, "alice"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "alice"))
	// 其他用户有独立的桶
	assert.Equal(t, http.StatusOK, serve(r, "bob"))
}
