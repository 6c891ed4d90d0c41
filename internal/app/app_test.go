package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/testutil"
	"github.com/d60-Lab/tuneboxd/pkg/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:       config.ServerConfig{Mode: gin.TestMode},
		Cache:        config.CacheConfig{TTL: time.Minute, Size: 100},
		JWT:          config.JWTConfig{Secret: "test-secret", Issuer: "tuneboxd", Expire: time.Hour},
		Pagination:   config.PaginationConfig{DefaultLimit: 20, MaxLimit: 100},
		Notification: config.NotificationConfig{RetentionDays: 30, CleanupInterval: time.Hour},
	}
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(method, path, token string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

type session struct {
	id    string
	token string
}

func (c client) register(name string) session {
	c.t.Helper()
	code, body := c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": name, "email": name + "@example.com", "password": "secret1",
	})
	require.Equal(c.t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	return session{id: user["id"].(string), token: body["token"].(string)}
}

func newClient(t *testing.T) (client, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	a, err := New(testConfig(), db, nil)
	require.NoError(t, err)
	require.NotNil(t, a.Janitor)
	return client{t: t, router: a.Router}, db
}

func (c client) login(identifier string) session {
	c.t.Helper()
	code, body := c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": identifier, "password": "secret1"})
	require.Equal(c.t, http.StatusOK, code, body)
	user := body["user"].(map[string]any)
	return session{id: user["id"].(string), token: body["token"].(string)}
}

func TestFollowNotifyFeedFlow(t *testing.T) {
	c, _ := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")

	code, body := c.do(http.MethodPost, "/api/v1/follow", alice.token, gin.H{"targetId": bob.id})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["success"])

	code, body = c.do(http.MethodPost, "/api/v1/follow", alice.token, gin.H{"targetId": bob.id})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "you are already following this user", body["message"])

	code, _ = c.do(http.MethodPost, "/api/v1/follow", alice.token, gin.H{"targetId": alice.id})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = c.do(http.MethodGet, "/api/v1/follow?targetId="+bob.id, alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["isFollowing"])

	code, body = c.do(http.MethodGet, "/api/v1/notifications", bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["unreadCount"])
	notes := body["notifications"].([]any)
	require.Len(t, notes, 1)
	note := notes[0].(map[string]any)
	assert.Equal(t, "follow", note["type"])
	assert.Equal(t, "alice", note["from_user"].(map[string]any)["username"])

	code, body = c.do(http.MethodPost, "/api/v1/reviews", bob.token, gin.H{
		"album":  gin.H{"spotify_id": "x1", "name": "Album X", "artist": "Artist"},
		"rating": 5,
		"title":  "Masterpiece",
	})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = c.do(http.MethodGet, "/api/v1/social/activity", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	acts := body["activities"].([]any)
	require.Len(t, acts, 1)
	act := acts[0].(map[string]any)
	assert.Equal(t, "review", act["activity_type"])
	assert.Equal(t, "bob", act["username"])
	assert.Equal(t, float64(5), act["rating"])
	assert.Equal(t, false, body["pagination"].(map[string]any)["hasMore"])

	code, _ = c.do(http.MethodDelete, "/api/v1/follow?targetId="+bob.id, alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodDelete, "/api/v1/follow?targetId="+bob.id, alice.token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = c.do(http.MethodGet, "/api/v1/social/activity", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["activities"])
}

func TestNotificationRoutes(t *testing.T) {
	c, _ := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")
	carol := c.register("carol")

	for _, s := range []session{bob, carol} {
		code, _ := c.do(http.MethodPost, "/api/v1/follow", s.token, gin.H{"targetId": alice.id})
		require.Equal(t, http.StatusOK, code)
	}

	_, body := c.do(http.MethodGet, "/api/v1/notifications?limit=1", alice.token, nil)
	notes := body["notifications"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, true, body["pagination"].(map[string]any)["hasMore"])
	id := notes[0].(map[string]any)["id"].(string)

	code, _ := c.do(http.MethodPatch, "/api/v1/notifications/"+id+"/read", bob.token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = c.do(http.MethodPatch, "/api/v1/notifications/"+id+"/read", alice.token, nil)
	assert.Equal(t, http.StatusOK, code)

	_, body = c.do(http.MethodGet, "/api/v1/notifications/unread-count", alice.token, nil)
	assert.Equal(t, float64(1), body["unreadCount"])

	code, body = c.do(http.MethodPatch, "/api/v1/notifications/read-all", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["updated"])

	_, body = c.do(http.MethodGet, "/api/v1/notifications?unreadOnly=true", alice.token, nil)
	assert.Empty(t, body["notifications"])

	code, _ = c.do(http.MethodDelete, "/api/v1/notifications/"+id, alice.token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodDelete, "/api/v1/notifications/"+id, alice.token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = c.do(http.MethodDelete, "/api/v1/notifications", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["deleted"])
}

func TestAuthGate(t *testing.T) {
	c, _ := newClient(t)

	code, body := c.do(http.MethodGet, "/api/v1/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	code, _ = c.do(http.MethodGet, "/api/v1/social/activity", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "  ", "email": "a@b.co", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "username", body["field"])

	alice := c.register("alice")
	code, body = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["token"])

	code, body = c.do(http.MethodGet, "/api/v1/auth/me", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
	assert.NotContains(t, body["user"], "password_hash")

	code, body = c.do(http.MethodGet, "/api/v1/profiles/alice", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["stats"].(map[string]any)["followers"])
}

func TestFollowStateAnonymous(t *testing.T) {
	c, _ := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")

	code, body := c.do(http.MethodPost, "/api/v1/follow", alice.token, gin.H{"targetId": bob.id})
	require.Equal(t, http.StatusOK, code, body)

	for _, token := range []string{"", "garbage"} {
		code, body = c.do(http.MethodGet, "/api/v1/follow?targetId="+bob.id, token, nil)
		require.Equal(t, http.StatusOK, code, body)
		assert.Equal(t, false, body["isFollowing"])

		code, body = c.do(http.MethodGet, "/api/v1/artists/follow?artistId=x", token, nil)
		require.Equal(t, http.StatusOK, code, body)
		assert.Equal(t, false, body["isFollowing"])
	}

	code, body = c.do(http.MethodGet, "/api/v1/follow?targetId="+bob.id, alice.token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["isFollowing"])

	// 写操作仍需登录
	code, _ = c.do(http.MethodPost, "/api/v1/follow", "", gin.H{"targetId": bob.id})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodDelete, "/api/v1/artists/follow?artistId=x", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestForumModerationRoutes(t *testing.T) {
	c, db := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")

	code, body := c.do(http.MethodPost, "/api/v1/forum/threads", alice.token, gin.H{"title": "Hello", "content": "world"})
	require.Equal(t, http.StatusCreated, code, body)
	threadID := body["thread"].(map[string]any)["id"].(string)

	code, _ = c.do(http.MethodPut, "/api/v1/forum/threads/"+threadID+"/lock", alice.token, gin.H{"value": true})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = c.do(http.MethodPost, "/api/v1/forum/threads/"+threadID+"/replies", bob.token, gin.H{"content": "hi"})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = c.do(http.MethodPost, "/api/v1/forum/likes", bob.token, gin.H{"target_type": "post", "target_id": threadID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "target_type", body["field"])

	code, body = c.do(http.MethodPost, "/api/v1/forum/likes", bob.token, gin.H{"target_type": "thread", "target_id": threadID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["liked"])

	_, body = c.do(http.MethodGet, "/api/v1/notifications", alice.token, nil)
	notes := body["notifications"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, string(model.NotificationThreadComment), notes[0].(map[string]any)["type"])

	c.register("mod")
	require.NoError(t, db.Model(&model.User{}).Where("username = ?", "mod").Update("role", model.RoleModerator).Error)
	mod := c.login("mod")

	code, body = c.do(http.MethodPut, "/api/v1/forum/threads/"+threadID+"/lock", mod.token, gin.H{"value": true})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["thread"].(map[string]any)["is_locked"])

	code, _ = c.do(http.MethodPost, "/api/v1/forum/threads/"+threadID+"/replies", bob.token, gin.H{"content": "late"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodDelete, "/api/v1/forum/threads/"+threadID, mod.token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/v1/forum/threads/"+threadID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthAndMetrics(t *testing.T) {
	c, _ := newClient(t)

	code, body := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tuneboxd_http_requests_total")
}

func TestLibraryRoutes(t *testing.T) {
	c, _ := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")
	albumBody := gin.H{"spotify_id": "sp1", "name": "Blue", "artist": "Joni"}

	code, body := c.do(http.MethodPost, "/api/v1/watchlist", alice.token, gin.H{"album": albumBody})
	require.Equal(t, http.StatusCreated, code, body)
	albumID := body["album"].(map[string]any)["id"].(string)
	code, _ = c.do(http.MethodPost, "/api/v1/watchlist", alice.token, gin.H{"album": albumBody})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = c.do(http.MethodGet, "/api/v1/listen-list/check?albumId="+albumID, alice.token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["inListenList"])
	code, body = c.do(http.MethodGet, "/api/v1/listen-list/check?albumId="+albumID, bob.token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, false, body["inListenList"])

	code, body = c.do(http.MethodGet, "/api/v1/watchlist", alice.token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["watchlist"], 1)
	code, _ = c.do(http.MethodDelete, "/api/v1/watchlist?albumId="+albumID, alice.token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodDelete, "/api/v1/watchlist?albumId="+albumID, alice.token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = c.do(http.MethodPost, "/api/v1/listening-history", alice.token, gin.H{
		"album": albumBody, "listenedAt": "2024-05-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, code, body)

	// 他人历史公开可读，自己的历史需要登录
	code, body = c.do(http.MethodGet, "/api/v1/users/"+alice.id+"/listening-history", "", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["listeningHistory"], 1)
	code, body = c.do(http.MethodGet, "/api/v1/listening-history?grouped=true", alice.token, nil)
	require.Equal(t, http.StatusOK, code, body)
	days := body["listeningHistory"].([]any)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-05-01", days[0].(map[string]any)["date"])
	code, _ = c.do(http.MethodGet, "/api/v1/listening-history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodDelete, "/api/v1/listening-history", alice.token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodDelete, "/api/v1/listening-history?albumId="+albumID, alice.token, nil)
	assert.Equal(t, http.StatusOK, code)

	track := gin.H{"trackId": "t1", "trackName": "River", "artistName": "Joni"}
	code, body = c.do(http.MethodPost, "/api/v1/track-favorites", alice.token, track)
	require.Equal(t, http.StatusCreated, code, body)
	code, body = c.do(http.MethodGet, "/api/v1/track-favorites?trackId=t1", alice.token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["isInFavorites"])
	code, body = c.do(http.MethodGet, "/api/v1/track-favorites/stats?trackId=t1", "", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, float64(1), body["stats"].(map[string]any)["favoriteCount"])
	code, _ = c.do(http.MethodDelete, "/api/v1/track-favorites?trackId=t1", alice.token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestForumFacetRoutes(t *testing.T) {
	c, _ := newClient(t)
	alice := c.register("alice")
	code, body := c.do(http.MethodPost, "/api/v1/forum/threads", alice.token, gin.H{"title": "t", "content": "c", "category": "jazz", "language": "en"})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = c.do(http.MethodGet, "/api/v1/forum/categories", "", nil)
	require.Equal(t, http.StatusOK, code, body)
	cats := body["categories"].([]any)
	require.Len(t, cats, 6)
	assert.Equal(t, "jazz", cats[0].(map[string]any)["category"])

	code, body = c.do(http.MethodGet, "/api/v1/forum/languages", "", nil)
	require.Equal(t, http.StatusOK, code, body)
	langs := body["languages"].([]any)
	require.Len(t, langs, 6)
	assert.Equal(t, "en", langs[0].(map[string]any)["code"])
	assert.Equal(t, float64(1), langs[0].(map[string]any)["thread_count"])
}

func TestAccountRecoveryRoutes(t *testing.T) {
	c, db := newClient(t)
	alice := c.register("alice")

	var v model.EmailVerification
	require.NoError(t, db.Where("user_id = ?", alice.id).First(&v).Error)
	code, body := c.do(http.MethodGet, "/api/v1/auth/verify-email?token="+v.Token, "", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, false, body["alreadyVerified"])
	assert.Equal(t, true, body["user"].(map[string]any)["email_verified"])
	code, _ = c.do(http.MethodGet, "/api/v1/auth/verify-email?token="+v.Token, "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodGet, "/api/v1/auth/verify-email", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// 已注册与未注册邮箱的响应一致
	code, known := c.do(http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, code)
	code, unknown := c.do(http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{"email": "ghost@example.com"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, known, unknown)
	code, _ = c.do(http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, code)

	var u model.User
	require.NoError(t, db.Where("id = ?", alice.id).First(&u).Error)
	reset, err := auth.NewManager(testConfig().JWT).IssueReset(&u)
	require.NoError(t, err)

	code, _ = c.do(http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{"token": alice.token, "password": "Better-pass1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{"token": reset, "password": "weakpass"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, body = c.do(http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{"token": reset, "password": "Better-pass1"})
	require.Equal(t, http.StatusOK, code, body)

	code, _ = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "alice", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "alice", "password": "Better-pass1"})
	assert.Equal(t, http.StatusOK, code)
}
