package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/config"
	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/seed"
	"github.com/d60-Lab/wordstack/internal/testutil"
	"github.com/d60-Lab/wordstack/pkg/auth"
)

const testSecret = "test-secret"

type env struct {
	t   *testing.T
	db  *gorm.DB
	app *App
}

func newEnv(t *testing.T) *env {
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		JWT:       config.JWTConfig{Secret: testSecret, CookieName: "sb-access-token"},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
		Site:      config.SiteConfig{BaseURL: "https://wordstack.test"},
	}
	db := testutil.NewDB(t)
	_, err := seed.Run(context.Background(), db)
	require.NoError(t, err)
	return &env{t: t, db: db, app: New(cfg, db, nil)}
}

func (e *env) token(userID string) string {
	tok, err := auth.Issue(testSecret, userID, "", "", time.Hour)
	require.NoError(e.t, err)
	return tok
}

func (e *env) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(userID))
	}
	w := httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)
	return w
}

func (e *env) poemID(slug string) string {
	var p model.Poem
	require.NoError(e.t, e.db.First(&p, "slug = ?", slug).Error)
	return p.ID
}

type likeBody struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

func decodeLike(t *testing.T, w *httptest.ResponseRecorder) likeBody {
	t.Helper()
	var b likeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestLikeToggleEndpoint(t *testing.T) {
	e := newEnv(t)
	id := e.poemID("the-raven")
	req := map[string]string{"subjectId": id, "subjectType": "poem"}

	w := e.do(http.MethodPost, "/like-toggle", "alice", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, likeBody{Liked: true, Count: 1}, decodeLike(t, w))

	w = e.do(http.MethodPost, "/like-toggle", "alice", req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likeBody{Liked: false, Count: 0}, decodeLike(t, w))

	// subjectType 缺省按经典诗歌处理
	w = e.do(http.MethodPost, "/like-toggle", "bob", map[string]string{"subjectId": id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likeBody{Liked: true, Count: 1}, decodeLike(t, w))
}

func TestLikeToggleErrors(t *testing.T) {
	e := newEnv(t)
	id := e.poemID("the-raven")

	w := e.do(http.MethodPost, "/like-toggle", "", map[string]string{"subjectId": id})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var n int64
	require.NoError(t, e.db.Model(&model.PoemLike{}).Count(&n).Error)
	assert.Zero(t, n)

	// 无效令牌等同匿名
	req := httptest.NewRequest(http.MethodPost, "/like-toggle", bytes.NewBufferString(`{"subjectId":"`+id+`"}`))
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	e.app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = e.do(http.MethodPost, "/like-toggle", "alice", map[string]string{"subjectId": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPost, "/like-toggle", "alice", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/like-toggle", "alice", map[string]string{"subjectId": id, "subjectType": "essay"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikeToggleViaCookie(t *testing.T) {
	e := newEnv(t)
	id := e.poemID("the-raven")

	req := httptest.NewRequest(http.MethodPost, "/like-toggle", bytes.NewBufferString(`{"subjectId":"`+id+`"}`))
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: e.token("carol")})
	w := httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likeBody{Liked: true, Count: 1}, decodeLike(t, w))
}

func TestPoemDetailAndComments(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/v1/poems/the-raven", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Data struct {
			ID        string `json:"id"`
			LikeCount int64  `json:"like_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, e.poemID("the-raven"), detail.Data.ID)

	path := "/api/v1/poems/" + detail.Data.ID + "/comments"
	w = e.do(http.MethodPost, path, "", map[string]string{"content": "quoth"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, path, "alice", map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, path, "alice", map[string]string{"content": "Nevermore"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nevermore")

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/v1/poems/missing", "", nil).Code)
}

func TestAdminRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, seed.Admin(context.Background(), e.db, "root", "root"))

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/v1/admin/dashboard", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/api/v1/admin/dashboard", "alice", nil).Code)

	w := e.do(http.MethodGet, "/api/v1/admin/dashboard", "root", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"poems":3`)

	w = e.do(http.MethodPost, "/api/v1/admin/poems", "root", map[string]string{"title": "The Raven", "text": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPost, "/api/v1/admin/reconcile", "root", map[string]string{})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestModernFlow(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/v1/modern-poems", "writer", map[string]string{"title": "Tide", "content": "in and out"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = e.do(http.MethodPost, "/like-toggle", "reader", map[string]string{"subjectId": created.Data.ID, "subjectType": "modern_poem"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likeBody{Liked: true, Count: 1}, decodeLike(t, w))

	w = e.do(http.MethodGet, "/api/v1/modern-poems?tab=recent", "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"liked":true`)

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/v1/modern-poems?tab=following", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, "/api/v1/modern-poems/"+created.Data.ID, "reader", nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/api/v1/modern-poems/"+created.Data.ID, "writer", nil).Code)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/v1/follows/writer", "writer", nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/v1/follows/writer", "reader", nil).Code)
}

func TestSitemapAndHealth(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/health", "", nil).Code)

	w := e.do(http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "https://wordstack.test/poems/the-raven")
}
