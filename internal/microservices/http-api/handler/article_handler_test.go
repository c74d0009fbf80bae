package handler

import (
	"net/http"
	"testing"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListArticles_BindsFilters(t *testing.T) {
	api := newTestAPI(t)
	api.articles.On("List", mock.Anything, userClaims.UserID, mock.MatchedBy(func(q dto.ArticleListQuery) bool {
		return q.Page == 2 &&
			q.Search == "graph" &&
			assert.ObjectsAreEqual([]string{"math", "physics"}, q.Area) &&
			q.Date == "recent" &&
			assert.ObjectsAreEqual([]string{"review"}, q.Type)
	})).Return([]dto.ArticleResponse{{ID: 4, Title: "Planar graphs", IsFavorited: true}}, nil)

	w := api.do(http.MethodGet, "/api/articles?page=2&search=graph&area=math&area=physics&date=recent&type=review", userToken, nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["page"])
	articles := body["articles"].([]any)
	require.Len(t, articles, 1)
	assert.Equal(t, true, articles[0].(map[string]any)["isFavorited"])
}

func TestListArticles_AnonymousDefaultsToFirstPage(t *testing.T) {
	api := newTestAPI(t)
	api.articles.On("List", mock.Anything, "", mock.MatchedBy(func(q dto.ArticleListQuery) bool {
		return q.Page == 1
	})).Return([]dto.ArticleResponse{}, nil)

	// an invalid token is treated as anonymous on public routes
	w := api.do(http.MethodGet, "/api/articles", "expired", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["articles"])
}

func TestListArticles_InvalidQuery(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/articles?date=yesterday", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"date"`)

	w = api.do(http.MethodGet, "/api/articles?page=0x", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetArticle(t *testing.T) {
	api := newTestAPI(t)
	api.articles.On("Get", mock.Anything, "", int64(4)).Return(&dto.ArticleResponse{ID: 4, Title: "Planar graphs", Views: 12}, nil)
	api.articles.On("Get", mock.Anything, "", int64(99)).Return(nil, service.ErrArticleNotFound)

	w := api.do(http.MethodGet, "/api/articles/4", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), decode(t, w)["article"].(map[string]any)["views"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/articles/99", "", nil, "").Code)
}

func TestCitation(t *testing.T) {
	api := newTestAPI(t)
	api.articles.On("Citation", mock.Anything, int64(4), "apa").Return("Souza, A. (2026). Planar graphs.", nil)
	api.articles.On("Citations", mock.Anything, int64(4)).Return(&dto.CitationsResponse{APA: "apa text", ABNT: "abnt text"}, nil)

	w := api.do(http.MethodGet, "/api/articles/4/citation?format=apa", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"format": "apa", "citation": "Souza, A. (2026). Planar graphs."}, decode(t, w))

	w = api.do(http.MethodGet, "/api/articles/4/citation", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"apa": "apa text", "abnt": "abnt text"}, decode(t, w))

	w = api.do(http.MethodGet, "/api/articles/4/citation?format=mla", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavorites(t *testing.T) {
	api := newTestAPI(t)
	api.articles.On("Favorite", mock.Anything, userClaims.UserID, int64(4)).Return(nil)
	api.articles.On("Unfavorite", mock.Anything, userClaims.UserID, int64(4)).Return(nil)
	api.articles.On("FavoriteStatus", mock.Anything, userClaims.UserID, int64(4)).Return(true, nil)
	api.articles.On("Favorite", mock.Anything, userClaims.UserID, int64(99)).Return(service.ErrArticleNotFound)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/articles/4/favorite", "", nil, "").Code)

	w := api.do(http.MethodPost, "/api/articles/4/favorite", userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isFavorited"])

	w = api.do(http.MethodDelete, "/api/articles/4/favorite", userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["isFavorited"])

	w = api.do(http.MethodGet, "/api/articles/4/favorite-status", userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isFavorited"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/articles/99/favorite", userToken, nil, "").Code)
}
