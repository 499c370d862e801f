package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cinema-booking-cli/model"
)

// Mock is an in-process inventory used when no service is running. It
// serves the fallback layout and keeps bookings in memory, so the full
// book/cancel/reconcile loop works offline.
type Mock struct {
	mu     sync.Mutex
	layout model.Layout
	now    func() time.Time
}

// NewMock creates a mock inventory seeded with the fallback layout.
func NewMock() *Mock {
	return &Mock{layout: FallbackLayout(), now: time.Now}
}

func (m *Mock) LoadLayout(_ context.Context) (model.Layout, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(), false
}

func (m *Mock) BookSeat(_ context.Context, code, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(code)
	if err != nil {
		return "", err
	}
	if m.layout.Seats[i].Value.Booked() {
		return "", &APIError{
			StatusCode: http.StatusConflict,
			Status:     "409 Conflict",
			Body:       fmt.Sprintf("seat %s is already booked", strings.ToUpper(code)),
		}
	}
	ticketID := m.newTicketID()
	m.layout.Seats[i].Value = model.SeatValue{Status: "booked", TicketId: ticketID}
	return ticketID, nil
}

func (m *Mock) CancelTicket(_ context.Context, ticketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, entry := range m.layout.Seats {
		if entry.Value.TicketId == ticketID {
			m.layout.Seats[i].Value = model.SeatValue{Status: model.SeatAvailable}
			return nil
		}
	}
	return &APIError{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       fmt.Sprintf("no booking for ticket %s", ticketID),
	}
}

func (m *Mock) GetSeat(_ context.Context, code string) (model.SeatStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(code)
	if err != nil {
		return model.SeatStatus{}, err
	}
	value := m.layout.Seats[i].Value
	return model.SeatStatus{Status: value.Status, Ticket: value.TicketId}, nil
}

func (m *Mock) find(code string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(code))
	for i, entry := range m.layout.Seats {
		if entry.Key == key {
			return i, nil
		}
	}
	return 0, &APIError{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       fmt.Sprintf("unknown seat %s", code),
	}
}

func (m *Mock) snapshot() model.Layout {
	copied := m.layout
	copied.Seats = make([]model.SeatEntry, len(m.layout.Seats))
	copy(copied.Seats, m.layout.Seats)
	return copied
}

// newTicketID mirrors the service's TICKET-YYYYMMDD-HHMMSS-XXXXX shape.
func (m *Mock) newTicketID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:5]
	return fmt.Sprintf("TICKET-%s-%s", m.now().Format("20060102-150405"), suffix)
}
