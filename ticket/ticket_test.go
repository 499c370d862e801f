package ticket

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"cinema-booking-cli/model"
)

func sampleTicket() model.Ticket {
	return model.Ticket{
		TicketId:    "T1",
		Cinema:      "Cineplex Theatre",
		Movie:       "The Blockbuster Movie",
		SeatsBooked: []string{"A1", "B3"},
		TotalSeats:  2,
		BookingDate: time.Date(2026, 8, 28, 19, 30, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleTicket())
	for _, want := range []string{
		"CINEMA TICKET CONFIRMATION",
		"Ticket ID: T1",
		"Cinema: Cineplex Theatre",
		"Movie: The Blockbuster Movie",
		"A1, B3",
		"Total Seats: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered ticket missing %q:\n%s", want, out)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	payload, err := RenderJSON(sampleTicket())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	var decoded model.Ticket
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("expected valid json, got %v", err)
	}
	if decoded.TicketId != "T1" || decoded.TotalSeats != 2 {
		t.Fatalf("unexpected decoded ticket: %+v", decoded)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()

	txtPath, err := WriteText(dir, sampleTicket())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.HasSuffix(txtPath, "ticket-T1.txt") {
		t.Fatalf("unexpected path: %s", txtPath)
	}
	if _, err := os.Stat(txtPath); err != nil {
		t.Fatalf("text ticket not written: %v", err)
	}

	jsonPath, err := WriteJSON(dir, sampleTicket())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.HasSuffix(jsonPath, "ticket-T1.json") {
		t.Fatalf("unexpected path: %s", jsonPath)
	}
}

func TestSafeNameSanitizesTicketId(t *testing.T) {
	dir := t.TempDir()
	tk := sampleTicket()
	tk.TicketId = "T1/../../evil"

	path, err := WriteText(dir, tk)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.Contains(path, "..") {
		t.Fatalf("path traversal not sanitized: %s", path)
	}
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("ticket written outside dir: %s", path)
	}
}
