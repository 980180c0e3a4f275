// Package main runs end-to-end checks of the booking ingestion flow against a
// live deployment.
//
// Scenarios cover:
//   - Happy-path booking with nested personal phone
//   - Phone precedence (personal.phone over owner.phone over top-level)
//   - Repeat customer reuse (same phone, second booking)
//   - Synthesized pet name from type and breed
//   - Booking without any phone field
//   - Admin booking listing
//
// Usage:
//
//	API_BASE_URL=... go run scripts/e2e/run_e2e.go [scenario-name]
//	API_BASE_URL=... go run scripts/e2e/run_e2e.go            # runs all
//	API_BASE_URL=... go run scripts/e2e/run_e2e.go happy-path # runs one
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"
)

var apiBase string

type bookingResponse struct {
	Message string `json:"message"`
	Data    struct {
		Customer struct {
			ID    int64  `json:"id"`
			Phone string `json:"phone"`
		} `json:"customer"`
		Pet struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"pet"`
		Booking struct {
			ID       int64    `json:"id"`
			Services []string `json:"services"`
		} `json:"booking"`
	} `json:"data"`
}

type scenario struct {
	name string
	run  func() error
}

func main() {
	apiBase = os.Getenv("API_BASE_URL")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}
	apiBase = strings.TrimRight(apiBase, "/")

	scenarios := []scenario{
		{"happy-path", runHappyPath},
		{"phone-precedence", runPhonePrecedence},
		{"repeat-customer", runRepeatCustomer},
		{"synthesized-pet-name", runSynthesizedPetName},
		{"missing-phone", runMissingPhone},
		{"admin-listing", runAdminListing},
	}

	var only string
	if len(os.Args) > 1 {
		only = os.Args[1]
	}

	passed, failed := 0, 0
	for _, sc := range scenarios {
		if only != "" && sc.name != only {
			continue
		}
		fmt.Printf("=== %s\n", sc.name)
		if err := sc.run(); err != nil {
			fmt.Printf("    FAIL: %v\n", err)
			failed++
			continue
		}
		fmt.Println("    PASS")
		passed++
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// freshPhone returns a phone number unlikely to collide with earlier runs.
func freshPhone() string {
	return fmt.Sprintf("555-02%02d-%04d", rand.Intn(100), time.Now().UnixNano()%10000)
}

func postBooking(payload map[string]any) (*bookingResponse, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.Post(apiBase+"/bookings", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	var out bookingResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response %q: %w", data, err)
	}
	return &out, resp.StatusCode, nil
}

func runHappyPath() error {
	phone := freshPhone()
	out, status, err := postBooking(map[string]any{
		"personal": map[string]any{"phone": phone},
		"pet": map[string]any{
			"name":  "Biscuit",
			"type":  "dog",
			"breed": "corgi",
		},
		"date":     time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"services": []string{"bath", "nail trim"},
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("expected 201, got %d", status)
	}
	if out.Message != "Booking saved" {
		return fmt.Errorf("unexpected message %q", out.Message)
	}
	if out.Data.Customer.Phone != phone {
		return fmt.Errorf("expected phone %q, got %q", phone, out.Data.Customer.Phone)
	}
	if out.Data.Pet.Name != "Biscuit" {
		return fmt.Errorf("expected pet name Biscuit, got %q", out.Data.Pet.Name)
	}
	if len(out.Data.Booking.Services) != 2 {
		return fmt.Errorf("expected 2 services, got %v", out.Data.Booking.Services)
	}
	return nil
}

func runPhonePrecedence() error {
	want := freshPhone()
	out, status, err := postBooking(map[string]any{
		"personal": map[string]any{"phone": want},
		"owner":    map[string]any{"phone": freshPhone()},
		"phone":    freshPhone(),
		"pet":      map[string]any{"name": "Pepper"},
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("expected 201, got %d", status)
	}
	if out.Data.Customer.Phone != want {
		return fmt.Errorf("personal.phone should win: want %q, got %q", want, out.Data.Customer.Phone)
	}
	return nil
}

func runRepeatCustomer() error {
	phone := freshPhone()
	first, status, err := postBooking(map[string]any{"phone": phone, "pet": map[string]any{"name": "Mochi"}})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("first booking: expected 201, got %d", status)
	}
	second, status, err := postBooking(map[string]any{"phone": phone, "pet": map[string]any{"name": "Mochi"}})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("second booking: expected 201, got %d", status)
	}
	if first.Data.Customer.ID != second.Data.Customer.ID {
		return fmt.Errorf("customer should be reused: %d vs %d",
			first.Data.Customer.ID, second.Data.Customer.ID)
	}
	if first.Data.Pet.ID != second.Data.Pet.ID {
		return fmt.Errorf("pet should be reused: %d vs %d",
			first.Data.Pet.ID, second.Data.Pet.ID)
	}
	if first.Data.Booking.ID == second.Data.Booking.ID {
		return fmt.Errorf("each submission should create its own booking")
	}
	return nil
}

func runSynthesizedPetName() error {
	out, status, err := postBooking(map[string]any{
		"phone": freshPhone(),
		"pet":   map[string]any{"type": "cat", "breed": "siamese"},
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("expected 201, got %d", status)
	}
	if out.Data.Pet.Name != "cat - siamese" {
		return fmt.Errorf("expected synthesized name, got %q", out.Data.Pet.Name)
	}
	return nil
}

func runMissingPhone() error {
	out, status, err := postBooking(map[string]any{"pet": map[string]any{"name": "Shadow", "type": "dog"}})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("expected 201 even without phone, got %d", status)
	}
	if out.Data.Customer.Phone != "" {
		return fmt.Errorf("expected empty phone, got %q", out.Data.Customer.Phone)
	}
	return nil
}

func runAdminListing() error {
	resp, err := http.Get(apiBase + "/admin/bookings?limit=5")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Bookings []json.RawMessage `json:"bookings"`
		Count    int               `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Count == 0 {
		return fmt.Errorf("expected at least one booking after earlier scenarios")
	}
	return nil
}
