package posts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRow(id int64, title, tags string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "title", "description", "tags", "created_at", "updated_at"}).
		AddRow(id, title, (*string)(nil), tags, now, now)
}

func newPostsHandler(t *testing.T) (*Handler, pgxmock.PgxPoolIface, *miniredis.Miniredis) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewHandler(newRepositoryWithQuerier(mock), NewCache(client, time.Minute), nil)
	return h, mock, mr
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPublicListPopulatesCache(t *testing.T) {
	h, mock, mr := newPostsHandler(t)

	mock.ExpectQuery("SELECT id, title, description").
		WillReturnRows(postRow(1, "Winter coats", `["seasonal"]`))

	rec := httptest.NewRecorder()
	h.PublicList(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListPostsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.True(t, mr.Exists(cacheKey), "listing should be cached")

	// Second request is served from cache; no further query expected.
	rec = httptest.NewRecorder()
	h.PublicList(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvalidatesCache(t *testing.T) {
	h, mock, mr := newPostsHandler(t)
	require.NoError(t, mr.Set(cacheKey, `[]`))

	mock.ExpectQuery("INSERT INTO text_posts").
		WithArgs("Puppy socials", pgxmock.AnyArg(), `["events","puppies"]`).
		WillReturnRows(postRow(3, "Puppy socials", `["events","puppies"]`))

	body := `{"title":"Puppy socials","tags":" events , puppies "}`
	req := httptest.NewRequest(http.MethodPost, "/admin/posts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, mr.Exists(cacheKey), "write should invalidate cache")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequiresTitle(t *testing.T) {
	h, _, _ := newPostsHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/posts", strings.NewReader(`{"tags":"a"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateNotFound(t *testing.T) {
	h, mock, _ := newPostsHandler(t)

	mock.ExpectQuery("UPDATE text_posts").
		WithArgs(int64(7), "Renamed", pgxmock.AnyArg(), `[]`).
		WillReturnError(pgx.ErrNoRows)

	req := httptest.NewRequest(http.MethodPut, "/admin/posts/7", strings.NewReader(`{"title":"Renamed"}`))
	req = withChiParam(req, "postID", "7")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	h, mock, mr := newPostsHandler(t)
	require.NoError(t, mr.Set(cacheKey, `[]`))

	mock.ExpectExec("DELETE FROM text_posts").
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	req := httptest.NewRequest(http.MethodDelete, "/admin/posts/2", nil)
	req = withChiParam(req, "postID", "2")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, mr.Exists(cacheKey))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInvalidID(t *testing.T) {
	h, _, _ := newPostsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
	req = withChiParam(req, "postID", "abc")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
