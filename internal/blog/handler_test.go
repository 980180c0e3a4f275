package blog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	deleted []string
}

func (f *fakeDeleter) Delete(_ context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

const blogColumnsTest = "id, title, description, tags, images, video_url, created_at, updated_at"

func blogRow(id int64, title string, tags, images string, video *string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(strings.Split(blogColumnsTest, ", ")).
		AddRow(id, title, (*string)(nil), tags, images, video, now, now)
}

func newBlogHandler(t *testing.T, deleter ObjectDeleter) (*Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewHandler(newRepositoryWithQuerier(mock), deleter, nil), mock
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestBlogCreate(t *testing.T) {
	h, mock := newBlogHandler(t, nil)

	mock.ExpectQuery("INSERT INTO blog_posts").
		WithArgs("Summer cuts", pgxmock.AnyArg(), `["grooming"]`, `["uploads/blog/images/a.jpg"]`, pgxmock.AnyArg()).
		WillReturnRows(blogRow(1, "Summer cuts", `["grooming"]`, `["uploads/blog/images/a.jpg"]`, nil))

	body := `{"title":"Summer cuts","tags":"grooming","images":["uploads/blog/images/a.jpg"]}`
	req := httptest.NewRequest(http.MethodPost, "/admin/blog", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var post Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, []string{"grooming"}, post.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogCreateRequiresTitle(t *testing.T) {
	h, _ := newBlogHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/blog", strings.NewReader(`{"title":"  "}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlogUpdateResetImagesDeletesObjects(t *testing.T) {
	deleter := &fakeDeleter{}
	h, mock := newBlogHandler(t, deleter)

	mock.ExpectQuery("SELECT id, title, description").
		WithArgs(int64(5)).
		WillReturnRows(blogRow(5, "Old", `[]`, `["uploads/blog/images/old1.jpg","uploads/blog/images/old2.jpg"]`, nil))
	mock.ExpectQuery("UPDATE blog_posts").
		WithArgs(int64(5), "Old", pgxmock.AnyArg(), `[]`, `["uploads/blog/images/new.jpg"]`, pgxmock.AnyArg()).
		WillReturnRows(blogRow(5, "Old", `[]`, `["uploads/blog/images/new.jpg"]`, nil))

	body := `{"reset_images":true,"images":["uploads/blog/images/new.jpg"]}`
	req := httptest.NewRequest(http.MethodPut, "/admin/blog/5", strings.NewReader(body))
	req = withChiParam(req, "postID", "5")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"uploads/blog/images/old1.jpg", "uploads/blog/images/old2.jpg"}, deleter.deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogDeleteRemovesMedia(t *testing.T) {
	deleter := &fakeDeleter{}
	h, mock := newBlogHandler(t, deleter)

	video := "videos/v1.mp4"
	mock.ExpectQuery("SELECT id, title, description").
		WithArgs(int64(9)).
		WillReturnRows(blogRow(9, "Gone", `[]`, `["uploads/blog/images/x.jpg"]`, &video))
	mock.ExpectExec("DELETE FROM blog_posts").
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	req := httptest.NewRequest(http.MethodDelete, "/admin/blog/9", nil)
	req = withChiParam(req, "postID", "9")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"uploads/blog/images/x.jpg", "videos/v1.mp4"}, deleter.deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogGetNotFound(t *testing.T) {
	h, mock := newBlogHandler(t, nil)

	mock.ExpectQuery("SELECT id, title, description").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/admin/blog/404", nil)
	req = withChiParam(req, "postID", "404")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlogListPagination(t *testing.T) {
	h, mock := newBlogHandler(t, nil)

	rows := blogRow(2, "Newest", `[]`, `[]`, nil).
		AddRow(int64(1), "Older", (*string)(nil), `[]`, `[]`, (*string)(nil), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, title, description").
		WithArgs(10, 0).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListPostsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Newest", resp.Posts[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
