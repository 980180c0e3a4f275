package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores media blog posts in the relational database.
type Repository struct {
	q querier
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("blog: pgx pool required")
	}
	return &Repository{q: pool}
}

func newRepositoryWithQuerier(q querier) *Repository {
	return &Repository{q: q}
}

// ListFilter bounds a post listing.
type ListFilter struct {
	Limit  int
	Offset int
}

const postColumns = `id, title, description, tags::text, images::text, video_url, created_at, updated_at`

// List returns posts newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_posts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, postColumns)
	rows, err := r.q.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("blog: list posts: %w", err)
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("blog: iterate posts: %w", err)
	}
	return out, nil
}

// GetByID fetches one post.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_posts WHERE id = $1`, postColumns)
	post, err := scanPost(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// Create inserts a new post.
func (r *Repository) Create(ctx context.Context, title string, description *string, tags, images []string, videoURL *string) (*Post, error) {
	query := fmt.Sprintf(`
		INSERT INTO blog_posts (title, description, tags, images, video_url)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5)
		RETURNING %s
	`, postColumns)
	post, err := scanPost(r.q.QueryRow(ctx, query,
		title, description, encodeJSON(tags), encodeJSON(images), videoURL))
	if err != nil {
		return nil, fmt.Errorf("blog: insert post: %w", err)
	}
	return post, nil
}

// Update overwrites a post's fields.
func (r *Repository) Update(ctx context.Context, id int64, title string, description *string, tags, images []string, videoURL *string) (*Post, error) {
	query := fmt.Sprintf(`
		UPDATE blog_posts
		SET title = $2, description = $3, tags = $4::jsonb, images = $5::jsonb, video_url = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, postColumns)
	post, err := scanPost(r.q.QueryRow(ctx, query,
		id, title, description, encodeJSON(tags), encodeJSON(images), videoURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("blog: update post: %w", err)
	}
	return post, nil
}

// Delete removes a post.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.q.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("blog: delete post: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*Post, error) {
	var (
		p      Post
		tags   string
		images string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &tags, &images, &p.VideoURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("blog: scan post: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("blog: decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("blog: decode images: %w", err)
	}
	return &p, nil
}

func encodeJSON(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}
