package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-booking-cli/model"
	"cinema-booking-cli/seat"
)

// Inventory is the slice of the remote service the coordinators need.
// BookSeat submits exactly one seat code and returns the ticket id issued
// for it; the one-call-per-seat shape makes the seat-to-ticket pairing
// explicit instead of relying on response order.
type Inventory interface {
	BookSeat(ctx context.Context, code, username, email string) (ticketID string, err error)
	CancelTicket(ctx context.Context, ticketID string) error
}

// Receipt is the outcome of a booking submission: one owned seat per
// successfully booked seat, in selection order.
type Receipt struct {
	Patron   model.Patron
	Seats    []model.OwnedSeat
	BookedAt time.Time
}

var (
	// ErrNothingSelected is returned when a coordinator is invoked with an
	// empty selection.
	ErrNothingSelected = errors.New("no seats selected")
	// ErrSeatUnavailable is the client-side fast-fail for a seat the
	// current snapshot already shows as booked.
	ErrSeatUnavailable = errors.New("seat is no longer available")
)

// BookingError reports a rejected booking submission. Seats booked before
// the failure are in the accompanying Receipt; no state is mutated for
// the failed seat itself.
type BookingError struct {
	SeatNumber int
	Code       string
	Err        error
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("booking seat %s failed: %v", e.Code, e.Err)
}

func (e *BookingError) Unwrap() error { return e.Err }

// CancellationError reports a rejected cancellation submission.
type CancellationError struct {
	SeatNumber int
	TicketID   string
	Err        error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelling ticket %s failed: %v", e.TicketID, e.Err)
}

func (e *CancellationError) Unwrap() error { return e.Err }

// Submit books every seat in selection, in order, one request per seat.
// The remote protocol carries a single seat code per call, so a
// multi-seat selection becomes a sequence of calls; each successful call
// yields an owned seat in the receipt. On the first failure Submit stops
// and returns the partial receipt together with a BookingError. Seats
// already ticketed stay ticketed, the rest of the selection is untouched.
// booked is the client's current view and is only a fast-fail check; the
// authoritative conflict check is the service's.
func Submit(ctx context.Context, inv Inventory, selection []int, cols int, booked map[int]bool, patron model.Patron) (Receipt, error) {
	receipt := Receipt{Patron: patron, BookedAt: time.Now()}
	if len(selection) == 0 {
		return receipt, ErrNothingSelected
	}
	for _, index := range selection {
		if booked[index] {
			return receipt, &BookingError{SeatNumber: index, Code: seat.Label(index, cols), Err: ErrSeatUnavailable}
		}
	}
	for _, index := range selection {
		code := seat.Label(index, cols)
		ticketID, err := inv.BookSeat(ctx, code, patron.Name, patron.Email)
		if err != nil {
			return receipt, &BookingError{SeatNumber: index, Code: code, Err: err}
		}
		receipt.Seats = append(receipt.Seats, model.OwnedSeat{
			SeatNumber: index,
			TicketId:   ticketID,
			SeatTitle:  code,
		})
	}
	return receipt, nil
}

// SubmitCancel cancels the first queued seat's ticket. Batch cancellation
// is deliberately not supported: the queue may hold several seats but one
// invocation submits exactly one ticket.
func SubmitCancel(ctx context.Context, inv Inventory, queue []int, owned model.OwnedRecord) (model.OwnedSeat, error) {
	if len(queue) == 0 {
		return model.OwnedSeat{}, ErrNothingSelected
	}
	seatNumber := queue[0]
	entry, ok := owned.Find(seatNumber)
	if !ok {
		return model.OwnedSeat{}, &CancellationError{
			SeatNumber: seatNumber,
			Err:        errors.New("no ticket held for this seat"),
		}
	}
	if err := inv.CancelTicket(ctx, entry.TicketId); err != nil {
		return model.OwnedSeat{}, &CancellationError{SeatNumber: seatNumber, TicketID: entry.TicketId, Err: err}
	}
	return entry, nil
}
