package grooming

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIngestor struct {
	result  *Result
	err     error
	payload Payload
}

func (s *stubIngestor) Ingest(_ context.Context, payload Payload) (*Result, error) {
	s.payload = payload
	return s.result, s.err
}

func TestCreateBookingSuccess(t *testing.T) {
	now := time.Now()
	stub := &stubIngestor{result: &Result{
		Customer: &Customer{ID: 1, Phone: "555-0100", CreatedAt: now},
		Pet:      &Pet{ID: 7, CustomerID: 1, Name: "dog - lab", CreatedAt: now},
		Booking:  &Booking{ID: 3, CustomerID: 1, Services: []string{"bath", "nails"}, CreatedAt: now},
	}}
	h := NewHandler(stub, nil, nil)

	body := `{"personal":{"phone":"555-0100"},"pet":{"type":"dog","breed":"lab"},"services":["bath","nails"]}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateBooking(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Data    Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Booking saved", resp.Message)
	assert.Equal(t, int64(1), resp.Data.Customer.ID)
	assert.Equal(t, "dog - lab", resp.Data.Pet.Name)
	assert.Equal(t, []string{"bath", "nails"}, resp.Data.Booking.Services)

	// The raw payload reaches the ingestor untouched.
	assert.Equal(t, "555-0100", stub.payload.Phone())
}

func TestCreateBookingInvalidBody(t *testing.T) {
	h := NewHandler(&stubIngestor{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`[not json`))
	rec := httptest.NewRecorder()

	h.CreateBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingIngestFailure(t *testing.T) {
	h := NewHandler(&stubIngestor{err: errors.New("tx failed")}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.CreateBooking(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListBookings(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "customer_id", "phone", "date", "notes", "services", "status", "created_at"}).
		AddRow(int64(2), int64(1), "555-0100", (*time.Time)(nil), (*string)(nil), `["bath"]`, false, now).
		AddRow(int64(1), int64(1), "555-0100", (*time.Time)(nil), (*string)(nil), `[]`, true, now.Add(-time.Hour))
	mock.ExpectQuery("SELECT b.id, b.customer_id, c.phone").
		WithArgs(25, 0).
		WillReturnRows(rows)

	h := NewHandler(&stubIngestor{}, newRepositoryWithQuerier(mock), nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings?limit=25", nil)
	rec := httptest.NewRecorder()

	h.ListBookings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListBookingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 25, resp.Limit)
	assert.Equal(t, "555-0100", resp.Bookings[0].Phone)
	assert.Equal(t, []string{"bath"}, resp.Bookings[0].Services)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsClampsBadParams(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT b.id, b.customer_id, c.phone").
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "phone", "date", "notes", "services", "status", "created_at"}))

	h := NewHandler(&stubIngestor{}, newRepositoryWithQuerier(mock), nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings?limit=9999&offset=-3", nil)
	rec := httptest.NewRecorder()

	h.ListBookings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
