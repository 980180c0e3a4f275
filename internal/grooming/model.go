package grooming

import "time"

// Customer is identified externally by its phone number.
type Customer struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Pet belongs to exactly one customer. Name is never empty after resolution;
// when the client omits it, the synthesized match key is stored instead.
type Pet struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Type       *string   `json:"type"`
	Breed      *string   `json:"breed"`
	Name       string    `json:"name"`
	Weight     *float64  `json:"weight"`
	Coat       *string   `json:"coat"`
	CreatedAt  time.Time `json:"created_at"`
}

// Booking is one grooming appointment request. Every successful submission
// creates a new row; bookings are never merged.
type Booking struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	Date       *time.Time `json:"date"`
	Notes      *string    `json:"notes"`
	Services   []string   `json:"services"`
	Status     bool       `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Result bundles the three entities produced by one ingestion call.
type Result struct {
	Customer *Customer `json:"customer"`
	Pet      *Pet      `json:"pet"`
	Booking  *Booking  `json:"booking"`
}
