package grooming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightpaws/grooming-platform/internal/observability/metrics"
	"github.com/brightpaws/grooming-platform/pkg/logging"
)

var groomingTracer = otel.Tracer("brightpaws.internal.grooming")

type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service runs the booking ingestion pipeline: one transaction that resolves
// the customer, resolves the pet and records the booking. Everything commits
// together or not at all.
type Service struct {
	db      db
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
}

// NewService constructs the ingestion service.
func NewService(db db, logger *logging.Logger, m *metrics.BookingMetrics) *Service {
	if db == nil {
		panic("grooming: db required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{db: db, logger: logger, metrics: m}
}

// Ingest resolves a raw submission into a customer, a pet and a new booking.
func (s *Service) Ingest(ctx context.Context, payload Payload) (*Result, error) {
	ctx, span := groomingTracer.Start(ctx, "grooming.ingest")
	defer span.End()

	phone := payload.Phone()
	span.SetAttributes(attribute.Bool("grooming.phone_present", phone != ""))

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("grooming: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	customer, err := s.resolveCustomer(ctx, tx, phone)
	if err != nil {
		span.RecordError(err)
		s.observe("error")
		return nil, err
	}

	pet, err := s.resolvePet(ctx, tx, customer.ID, payload.Pet())
	if err != nil {
		span.RecordError(err)
		s.observe("error")
		return nil, err
	}

	booking, err := s.recordBooking(ctx, tx, customer.ID, payload.Date(), payload.Notes(), payload.Services())
	if err != nil {
		span.RecordError(err)
		s.observe("error")
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		s.observe("error")
		return nil, fmt.Errorf("grooming: commit tx: %w", err)
	}

	s.observe("ok")
	s.logger.Info("booking ingested",
		"customer_id", customer.ID,
		"pet_id", pet.ID,
		"booking_id", booking.ID,
	)
	return &Result{Customer: customer, Pet: pet, Booking: booking}, nil
}

// resolveCustomer finds or creates the customer for a phone. The insert relies
// on the unique index on phone: when a concurrent writer wins the race the
// conflict clause swallows the insert and the follow-up select returns the
// winner's row.
func (s *Service) resolveCustomer(ctx context.Context, tx pgx.Tx, phone string) (*Customer, error) {
	const insert = `
		INSERT INTO customers (phone)
		VALUES ($1)
		ON CONFLICT (phone) DO NOTHING
		RETURNING id, phone, address, created_at
	`
	var c Customer
	err := tx.QueryRow(ctx, insert, phone).Scan(&c.ID, &c.Phone, &c.Address, &c.CreatedAt)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("grooming: insert customer: %w", err)
	}

	const query = `SELECT id, phone, address, created_at FROM customers WHERE phone = $1`
	if err := tx.QueryRow(ctx, query, phone).Scan(&c.ID, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("grooming: load customer: %w", err)
	}
	return &c, nil
}

// resolvePet finds or creates the pet for (customer, match key) in a single
// statement. On a key match the mutable attributes are overwritten with the
// latest submission; the stored name is left alone. The conflict clause also
// covers two concurrent first sightings of the same pet.
func (s *Service) resolvePet(ctx context.Context, tx pgx.Tx, customerID int64, fields PetFields) (*Pet, error) {
	const upsert = `
		INSERT INTO pets (customer_id, type, breed, name, weight, coat)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (customer_id, name) DO UPDATE SET
			type = EXCLUDED.type,
			breed = EXCLUDED.breed,
			weight = EXCLUDED.weight,
			coat = EXCLUDED.coat,
			updated_at = NOW()
		RETURNING id, customer_id, type, breed, name, weight, coat, created_at
	`
	var p Pet
	err := tx.QueryRow(ctx, upsert,
		customerID,
		nullIfEmpty(fields.Type),
		nullIfEmpty(fields.Breed),
		fields.MatchKey(),
		fields.Weight,
		nullIfEmpty(fields.Coat),
	).Scan(&p.ID, &p.CustomerID, &p.Type, &p.Breed, &p.Name, &p.Weight, &p.Coat, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("grooming: upsert pet: %w", err)
	}
	return &p, nil
}

// recordBooking always inserts a new row.
func (s *Service) recordBooking(ctx context.Context, tx pgx.Tx, customerID int64, date *time.Time, notes string, services []string) (*Booking, error) {
	encoded, err := json.Marshal(services)
	if err != nil {
		return nil, fmt.Errorf("grooming: encode services: %w", err)
	}

	const insert = `
		INSERT INTO bookings (customer_id, date, notes, services)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING id, customer_id, date, notes, status, created_at
	`
	var b Booking
	err = tx.QueryRow(ctx, insert, customerID, date, nullIfEmpty(notes), string(encoded)).
		Scan(&b.ID, &b.CustomerID, &b.Date, &b.Notes, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("grooming: insert booking: %w", err)
	}
	b.Services = services
	return &b, nil
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveIngestion(outcome)
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
