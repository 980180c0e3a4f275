package grooming

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository serves read paths outside the ingestion transaction.
type Repository struct {
	q querier
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("grooming: pgx pool required")
	}
	return &Repository{q: pool}
}

func newRepositoryWithQuerier(q querier) *Repository {
	return &Repository{q: q}
}

// ListFilter bounds the admin booking list.
type ListFilter struct {
	Limit  int
	Offset int
}

// BookingSummary is one row of the admin booking list.
type BookingSummary struct {
	Booking
	Phone string `json:"phone"`
}

// ListBookings returns bookings newest first with the owning customer's phone.
func (r *Repository) ListBookings(ctx context.Context, filter ListFilter) ([]*BookingSummary, error) {
	const query = `
		SELECT b.id, b.customer_id, c.phone, b.date, b.notes, b.services::text, b.status, b.created_at
		FROM bookings b
		JOIN customers c ON c.id = b.customer_id
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.q.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("grooming: list bookings: %w", err)
	}
	defer rows.Close()

	var out []*BookingSummary
	for rows.Next() {
		var (
			s        BookingSummary
			services string
		)
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.Phone, &s.Date, &s.Notes, &services, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("grooming: scan booking: %w", err)
		}
		if err := json.Unmarshal([]byte(services), &s.Services); err != nil {
			return nil, fmt.Errorf("grooming: decode services: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("grooming: iterate bookings: %w", err)
	}
	return out, nil
}
