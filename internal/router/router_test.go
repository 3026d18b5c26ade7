package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fashigram/internal/config"
	"fashigram/internal/middleware"
	"fashigram/internal/models"
	"fashigram/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
	secret  []byte
	cookies []*http.Cookie
}

func newAPI(t *testing.T) (*apiClient, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SessionSecret:     "session-secret",
		JWTSecret:         "jwt-secret",
		CORSOrigins:       []string{"http://localhost:3000"},
		VoteRatePerMinute: 600,
		VoteRateBurst:     100,
	}
	st := store.NewMemoryStore(models.CatalogueStyles()...)
	svc, err := NewServices(st)
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(cfg.VoteRatePerMinute, cfg.VoteRateBurst)
	return &apiClient{t: t, handler: New(cfg, svc, limiter), secret: []byte(cfg.JWTSecret)}, st
}

func (a *apiClient) token(user string) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: user}).SignedString(a.secret)
	require.NoError(a.t, err)
	return s
}

func (a *apiClient) do(method, path, user string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(user))
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		a.cookies = cs
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *apiClient) createPost(user, style string, extra map[string]interface{}) models.Post {
	a.t.Helper()
	body := map[string]interface{}{"style": style, "image_urls": []string{"https://img.example/1.jpg"}}
	for k, v := range extra {
		body[k] = v
	}
	w := a.do(http.MethodPost, "/api/posts", user, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Post](a.t, w)
}

func TestHealth(t *testing.T) {
	api, st := newAPI(t)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil).Code)

	st.SetFailure(errors.New("db down"))
	assert.Equal(t, http.StatusServiceUnavailable, api.do(http.MethodGet, "/health", "", nil).Code)
}

func TestWritesRequireIdentity(t *testing.T) {
	api, _ := newAPI(t)
	w := api.do(http.MethodPost, "/api/posts", "", map[string]interface{}{"style": "Goth"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVotingFlow(t *testing.T) {
	api, _ := newAPI(t)
	post := api.createPost("author", "goth", nil)
	assert.Equal(t, "Goth", post.DeclaredStyle)

	path := "/api/posts/" + post.ID
	for _, style := range []string{"Punk", "Emo"} {
		w := api.do(http.MethodPost, path+"/suggestions", "alice", map[string]string{"style": style})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := api.do(http.MethodPost, path+"/suggestions", "alice", map[string]string{"style": "Grunge"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodPost, path+"/votes", "bob", map[string]string{"style": "Punk"})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[map[string]interface{}](t, w)
	assert.Equal(t, true, out["voted"])
	assert.Equal(t, float64(2), out["count"])

	w = api.do(http.MethodPost, path+"/votes", "bob", map[string]string{"style": "Punk", "kind": "DECLARED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, path+"/votes", "bob", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, path, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		DeclaredVotes int `json:"declared_votes"`
		Suggestions   []struct {
			Style string `json:"style"`
			Count int    `json:"count"`
		} `json:"suggestions"`
		MyVotes []string `json:"my_votes"`
	}](t, w)
	assert.Equal(t, 1, detail.DeclaredVotes)
	require.Len(t, detail.Suggestions, 2)
	assert.Equal(t, "Punk", detail.Suggestions[0].Style)
	assert.Equal(t, 2, detail.Suggestions[0].Count)
	assert.ElementsMatch(t, []string{"Punk", "Emo"}, detail.MyVotes)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/posts/missing", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/posts/missing/votes", "bob", map[string]string{"style": "Goth"}).Code)
}

func TestDeletePost(t *testing.T) {
	api, _ := newAPI(t)
	post := api.createPost("author", "Goth", nil)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/posts/"+post.ID, "mallory", nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/posts/"+post.ID, "author", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/posts/"+post.ID, "", nil).Code)
}

func TestCreatePostValidation(t *testing.T) {
	api, _ := newAPI(t)
	w := api.do(http.MethodPost, "/api/posts", "author", map[string]interface{}{"style": "Goth", "image_urls": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "image_urls", decode[map[string]string](t, w)["field"])
}

type feedResponse struct {
	Sort   string            `json:"sort"`
	Filter models.FeedFilter `json:"filter"`
	Posts  []models.Post     `json:"posts"`
}

func TestFeedRemembersPreferences(t *testing.T) {
	api, _ := newAPI(t)
	api.createPost("a", "Lolita", map[string]interface{}{"substyle": "Sweet Lolita", "country_name": "Japan"})
	api.createPost("b", "Lolita", map[string]interface{}{"substyle": "Gothic Lolita", "country_name": "France"})
	api.createPost("c", "Goth", map[string]interface{}{"country_name": "Japan"})

	w := api.do(http.MethodGet, "/api/feed?sort=top&style=lolita&substyle=Sweet%20Lolita", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[feedResponse](t, w)
	assert.Equal(t, "top", feed.Sort)
	assert.Equal(t, "Lolita", feed.Filter.Style)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "a", feed.Posts[0].AuthorID)

	// No query: the session supplies the last choices.
	feed = decode[feedResponse](t, api.do(http.MethodGet, "/api/feed", "", nil))
	assert.Equal(t, "top", feed.Sort)
	assert.Equal(t, "Sweet Lolita", feed.Filter.Substyle)

	// Changing the style drops the remembered substyle.
	feed = decode[feedResponse](t, api.do(http.MethodGet, "/api/feed?style=Goth", "", nil))
	assert.Equal(t, "", feed.Filter.Substyle)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "c", feed.Posts[0].AuthorID)

	// Clearing the style shows everything.
	feed = decode[feedResponse](t, api.do(http.MethodGet, "/api/feed?style=", "", nil))
	assert.Len(t, feed.Posts, 3)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/feed?sort=hot", "", nil).Code)

	countries := decode[map[string][]string](t, api.do(http.MethodGet, "/api/feed/countries", "", nil))
	assert.Equal(t, []string{"France", "Japan"}, countries["countries"])
}

func TestStyleEndpoints(t *testing.T) {
	api, _ := newAPI(t)
	api.createPost("a", "Visual Kei", nil)

	w := api.do(http.MethodGet, "/api/styles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[map[string][]models.StyleGroup](t, w)["styles"]
	assert.NotEmpty(t, groups)

	w = api.do(http.MethodGet, "/api/styles/visual%20kei/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Style string        `json:"style"`
		Posts []models.Post `json:"posts"`
	}](t, w)
	assert.Equal(t, "Visual Kei", page.Style)
	assert.Len(t, page.Posts, 1)

	byAuthor := decode[map[string][]models.Post](t, api.do(http.MethodGet, "/api/users/a/posts", "", nil))
	assert.Len(t, byAuthor["posts"], 1)
}

func TestCircleSpotlightFlow(t *testing.T) {
	api, _ := newAPI(t)
	post := api.createPost("author", "Goth", nil)

	w := api.do(http.MethodPost, "/api/circles", "owner", map[string]string{"name": "Night market"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	circle := decode[models.Circle](t, w)

	mine := decode[map[string][]models.Circle](t, api.do(http.MethodGet, "/api/circles", "owner", nil))
	require.Len(t, mine["circles"], 1)

	toggle := "/api/circles/" + circle.ID + "/spotlight/" + post.ID
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, toggle, "stranger", nil).Code)

	w = api.do(http.MethodPost, toggle, "owner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]interface{}](t, w)["spotlighted"])

	spot := decode[map[string][]models.Post](t, api.do(http.MethodGet, "/api/circles/"+circle.ID+"/spotlight", "", nil))
	require.Len(t, spot["posts"], 1)

	containing := decode[map[string][]string](t, api.do(http.MethodGet, "/api/posts/"+post.ID+"/circles", "", nil))
	assert.Equal(t, []string{circle.ID}, containing["circle_ids"])

	w = api.do(http.MethodPost, toggle, "owner", nil)
	assert.Equal(t, false, decode[map[string]interface{}](t, w)["spotlighted"])

	spot = decode[map[string][]models.Post](t, api.do(http.MethodGet, "/api/circles/"+circle.ID+"/spotlight", "", nil))
	assert.Empty(t, spot["posts"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/circles/missing", "", nil).Code)
}

func TestStorageFailureIsRetryable(t *testing.T) {
	api, st := newAPI(t)
	post := api.createPost("author", "Goth", nil)

	st.SetFailure(errors.New("connection refused"))
	w := api.do(http.MethodPost, "/api/posts/"+post.ID+"/votes", "alice", map[string]string{"style": "Punk"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
