package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const layoutBody = `{
  "rows": 3,
  "cols": 4,
  "seats": {
    "a1": "available",
    "a2": "available",
    "a3": "available",
    "a4": {"status": "booked", "ticketId": "T-A4"},
    "b1": "available",
    "b2": {"status": "booked", "ticketId": "T-B2"},
    "b3": "available",
    "b4": "available",
    "c1": "available",
    "c2": "available",
    "c3": "available",
    "c4": "available"
  }
}`

func TestGetLayout_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/layout" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(layoutBody))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	layout, err := client.GetLayout(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if layout.Rows != 3 || layout.Cols != 4 {
		t.Fatalf("unexpected dimensions: %dx%d", layout.Rows, layout.Cols)
	}
	if layout.Seats[3].Key != "a4" || !layout.Seats[3].Value.Booked() {
		t.Fatalf("seat order not preserved: %+v", layout.Seats[3])
	}
}

func TestGetLayout_RejectsInvalidLayout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows": 2, "cols": 2, "seats": {"a1": "available"}}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	if _, err := client.GetLayout(context.Background()); err == nil {
		t.Fatal("expected error for seat count mismatch")
	}
}

func TestLoadLayout_FallsBackWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // port now refuses connections

	client := NewClient(&http.Client{Timeout: time.Second}, server.URL)
	client.maxAttempts = 1

	layout, degraded := client.LoadLayout(context.Background())
	if !degraded {
		t.Fatal("expected degraded flag")
	}
	if layout.Rows != 3 || layout.Cols != 4 || len(layout.Seats) != 12 {
		t.Fatalf("expected fallback layout, got %+v", layout)
	}
	if !layout.Seats[3].Value.Booked() || !layout.Seats[5].Value.Booked() {
		t.Fatal("fallback layout should book a4 and b2")
	}
}

func TestBookSeat_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/book" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["seatCode"] != "A1" || body["username"] != "Pedro" || body["email"] != "p@x.com" {
			t.Fatalf("unexpected body: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticket": "T1"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	ticketID, err := client.BookSeat(context.Background(), "A1", "Pedro", "p@x.com")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ticketID != "T1" {
		t.Fatalf("unexpected ticket: %q", ticketID)
	}
}

func TestBookSeat_Non2xxIsTypedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("seat already booked"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	_, err := client.BookSeat(context.Background(), "A1", "Pedro", "p@x.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if !strings.Contains(err.Error(), "seat already booked") {
		t.Fatalf("expected verbatim service message, got %v", err)
	}
}

func TestBookSeat_NeverRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	if _, err := client.BookSeat(context.Background(), "A1", "Pedro", "p@x.com"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("booking must not be retried, got %d attempts", attempts)
	}
}

func TestGetLayout_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(layoutBody))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	if _, err := client.GetLayout(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestCancelTicket_OK(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	if err := client.CancelTicket(context.Background(), "T1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if path != "/book/T1" {
		t.Fatalf("unexpected path: %s", path)
	}
}

func TestCancelTicket_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("unknown ticket"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	err := client.CancelTicket(context.Background(), "T9")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetSeat_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seats/A4" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "booked", "ticket": "T-A4"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	status, err := client.GetSeat(context.Background(), "A4")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if status.Status != "booked" || status.Ticket != "T-A4" {
		t.Fatalf("unexpected status: %+v", status)
	}
}
