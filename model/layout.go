package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SeatAvailable is the literal the inventory service uses for a free seat.
const SeatAvailable = "available"

// SeatValue is one entry in a layout's seat map. The wire format is either
// the bare string "available" or an object {"status": ..., "ticketId": ...}.
type SeatValue struct {
	Status   string `json:"status"`
	TicketId string `json:"ticketId"`
}

// Booked reports whether the seat is anything other than available.
func (v SeatValue) Booked() bool {
	return v.Status != SeatAvailable
}

func (v *SeatValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Status = s
		v.TicketId = ""
		return nil
	}
	type seatObject SeatValue
	var obj seatObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("seat value is neither a status string nor an object: %w", err)
	}
	*v = SeatValue(obj)
	return nil
}

func (v SeatValue) MarshalJSON() ([]byte, error) {
	if !v.Booked() && v.TicketId == "" {
		return json.Marshal(v.Status)
	}
	type seatObject SeatValue
	return json.Marshal(seatObject(v))
}

// SeatEntry pairs an inventory key (e.g. "a1") with its value. The seat
// index is the entry's position in Layout.Seats, not anything parsed out
// of the key.
type SeatEntry struct {
	Key   string
	Value SeatValue
}

// Layout is a full seat map snapshot from the inventory service. The
// service enumerates seats in row-major order and the client derives
// booked membership from that enumeration order, so Seats is an ordered
// slice rather than a map: encoding/json map decoding would discard the
// object's key order.
type Layout struct {
	Rows  int
	Cols  int
	Seats []SeatEntry
}

func (l *Layout) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rows  int             `json:"rows"`
		Cols  int             `json:"cols"`
		Seats json.RawMessage `json:"seats"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Rows = raw.Rows
	l.Cols = raw.Cols
	l.Seats = nil
	if len(raw.Seats) == 0 || string(raw.Seats) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Seats))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode seats: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode seats: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode seats: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode seats: expected key, got %v", keyTok)
		}
		var value SeatValue
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode seat %q: %w", key, err)
		}
		l.Seats = append(l.Seats, SeatEntry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode seats: %w", err)
	}
	return nil
}

func (l Layout) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"rows":%d,"cols":%d,"seats":{`, l.Rows, l.Cols)
	for i, entry := range l.Seats {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// maxRows bounds the single-letter row labeling scheme (A..Z).
const maxRows = 26

// Validate checks the structural invariants the client relies on.
func (l Layout) Validate() error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("layout has invalid dimensions %dx%d", l.Rows, l.Cols)
	}
	if l.Rows > maxRows {
		return fmt.Errorf("layout has %d rows, row labels support at most %d", l.Rows, maxRows)
	}
	if len(l.Seats) != l.Rows*l.Cols {
		return fmt.Errorf("layout has %d seats, expected %d", len(l.Seats), l.Rows*l.Cols)
	}
	return nil
}

// SeatStatus is the payload of the single-seat debug endpoint.
type SeatStatus struct {
	Status string `json:"status"`
	Ticket string `json:"ticket,omitempty"`
}
