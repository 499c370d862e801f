package service

import "cinema-booking-cli/model"

// FallbackLayout is the deterministic 3x4 layout substituted when the
// inventory service cannot be reached: a4 and b2 booked, everything else
// available. Keys enumerate in row-major order, matching the service's
// guarantee.
func FallbackLayout() model.Layout {
	booked := func(ticketID string) model.SeatValue {
		return model.SeatValue{Status: "booked", TicketId: ticketID}
	}
	available := model.SeatValue{Status: model.SeatAvailable}
	return model.Layout{
		Rows: 3,
		Cols: 4,
		Seats: []model.SeatEntry{
			{Key: "a1", Value: available},
			{Key: "a2", Value: available},
			{Key: "a3", Value: available},
			{Key: "a4", Value: booked("MOCK-TICKET-A4")},
			{Key: "b1", Value: available},
			{Key: "b2", Value: booked("MOCK-TICKET-B2")},
			{Key: "b3", Value: available},
			{Key: "b4", Value: available},
			{Key: "c1", Value: available},
			{Key: "c2", Value: available},
			{Key: "c3", Value: available},
			{Key: "c4", Value: available},
		},
	}
}
