// Package ticket renders booking confirmations for export: a plain-text
// ticket and a structured JSON record, written to a tickets directory on
// request.
package ticket

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cinema-booking-cli/model"
)

const divider = "==========================================="

// Render formats a ticket as the plain-text confirmation block.
func Render(t model.Ticket) string {
	var b strings.Builder
	b.WriteString(divider + "\n")
	b.WriteString("         CINEMA TICKET CONFIRMATION\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "Ticket ID: %s\n", t.TicketId)
	fmt.Fprintf(&b, "Cinema: %s\n", t.Cinema)
	fmt.Fprintf(&b, "Movie: %s\n", t.Movie)
	fmt.Fprintf(&b, "Date: %s\n\n", t.BookingDate.Format("January 2, 2006 15:04"))
	b.WriteString("SEATS BOOKED:\n")
	b.WriteString(strings.Join(t.SeatsBooked, ", ") + "\n\n")
	fmt.Fprintf(&b, "Total Seats: %d\n\n", t.TotalSeats)
	b.WriteString(divider + "\n")
	b.WriteString("Keep this ticket for your records.\n")
	b.WriteString("Valid for one-time use only.\n")
	b.WriteString(divider + "\n")
	return b.String()
}

// RenderJSON formats a ticket as an indented JSON document.
func RenderJSON(t model.Ticket) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// WriteText writes the plain-text rendering to dir and returns the path.
func WriteText(dir string, t model.Ticket) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("ticket-%s.txt", safeName(t.TicketId)))
	if err := write(path, []byte(Render(t))); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON writes the JSON rendering to dir and returns the path.
func WriteJSON(dir string, t model.Ticket) (string, error) {
	payload, err := RenderJSON(t)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("ticket-%s.json", safeName(t.TicketId)))
	if err := write(path, payload); err != nil {
		return "", err
	}
	return path, nil
}

func write(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func safeName(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, value)
}
