package model

import "time"

// Patron identifies the person a booking is made for.
type Patron struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnedSeat is one ticket held by the patron. SeatNumber is the seat's
// row-major index in the layout, SeatTitle its display label (e.g. "A1").
type OwnedSeat struct {
	SeatNumber int    `json:"seatNumber"`
	TicketId   string `json:"ticketId"`
	SeatTitle  string `json:"seatTitle"`
}

// OwnedRecord is the persisted record of the patron's tickets. It survives
// restarts and is pruned against fresh layout snapshots: any seat the
// snapshot no longer shows as booked was cancelled out-of-band and must be
// forgotten.
type OwnedRecord struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Seats []OwnedSeat `json:"seats"`
}

// Empty reports whether the record holds no tickets.
func (r OwnedRecord) Empty() bool {
	return len(r.Seats) == 0
}

// SeatNumbers returns the indices of all owned seats in booking order.
func (r OwnedRecord) SeatNumbers() []int {
	numbers := make([]int, 0, len(r.Seats))
	for _, seat := range r.Seats {
		numbers = append(numbers, seat.SeatNumber)
	}
	return numbers
}

// Find returns the owned seat with the given index, if any.
func (r OwnedRecord) Find(seatNumber int) (OwnedSeat, bool) {
	for _, seat := range r.Seats {
		if seat.SeatNumber == seatNumber {
			return seat, true
		}
	}
	return OwnedSeat{}, false
}

// Ticket is the exportable confirmation record for a completed booking.
type Ticket struct {
	TicketId    string    `json:"ticketId"`
	Cinema      string    `json:"cinema"`
	Movie       string    `json:"movie"`
	SeatsBooked []string  `json:"seatsBooked"`
	TotalSeats  int       `json:"totalSeats"`
	BookingDate time.Time `json:"bookingDate"`
}
