// Package booking holds the seat reservation state machine: the client's
// view of seat availability, the patron's pending selections, and the
// tickets the patron owns, kept consistent with layout snapshots from the
// remote inventory service. The remote service is the only authority on
// booked versus available; everything here is reconciled against it and
// never allowed to claim a seat a fresh snapshot disputes.
package booking

import (
	"slices"

	"cinema-booking-cli/model"
)

// Flow selects how many seats may be pending for booking at once. The
// single flow allows one pending seat app-wide; the multi flow allows any
// subset of available, non-owned seats. Cancellation queues follow the
// same discipline in either flow but only the first queued seat is ever
// submitted per invocation.
type Flow int

const (
	FlowSingle Flow = iota
	FlowMulti
)

// Repository persists the patron's owned-seat record across runs. Load
// reports ok=false when no record has been saved yet.
type Repository interface {
	Load() (record model.OwnedRecord, ok bool, err error)
	Save(record model.OwnedRecord) error
}

// SeatState is a seat's position in the per-seat selection state machine,
// derived from set membership.
type SeatState int

const (
	SeatAvailable SeatState = iota
	SeatSelected
	SeatBookedByMe
	SeatCancelSelected
	SeatBookedByOther
)

// State is the local reservation state. It is owned by a single
// goroutine (the UI update loop); coordinators do remote I/O elsewhere
// and their results are folded in here via the Apply methods.
type State struct {
	flow Flow
	repo Repository

	rows int
	cols int

	selected       []int
	cancelSelected []int
	booked         map[int]bool
	owned          model.OwnedRecord
	hasOwned       bool
}

// NewState creates a reservation state backed by repo, restoring any
// previously persisted owned-seat record. The restored record is
// provisional until the first snapshot reconciliation prunes it.
func NewState(flow Flow, repo Repository) (*State, error) {
	s := &State{
		flow:   flow,
		repo:   repo,
		booked: map[int]bool{},
	}
	record, ok, err := repo.Load()
	if err != nil {
		return nil, err
	}
	s.owned = record
	s.hasOwned = ok
	return s, nil
}

func (s *State) Rows() int { return s.rows }
func (s *State) Cols() int { return s.cols }

// SeatCount returns the number of seats in the current layout.
func (s *State) SeatCount() int { return s.rows * s.cols }

// Selected returns the pending booking selection in selection order.
func (s *State) Selected() []int { return slices.Clone(s.selected) }

// CancelSelected returns the pending cancellation queue in order.
func (s *State) CancelSelected() []int { return slices.Clone(s.cancelSelected) }

// Booked reports whether the snapshot shows the seat as booked by anyone.
func (s *State) Booked(index int) bool { return s.booked[index] }

// BookedCount returns how many seats the current snapshot shows booked.
func (s *State) BookedCount() int { return len(s.booked) }

// BookedSet returns a copy of the booked set, safe to hand to a
// coordinator running outside the owning goroutine.
func (s *State) BookedSet() map[int]bool {
	booked := make(map[int]bool, len(s.booked))
	for index := range s.booked {
		booked[index] = true
	}
	return booked
}

// Owned returns the patron's owned-seat record.
func (s *State) Owned() (model.OwnedRecord, bool) { return s.owned, s.hasOwned }

// OwnedSeat reports whether the patron holds a ticket for the seat.
func (s *State) OwnedSeat(index int) bool {
	_, ok := s.owned.Find(index)
	return ok
}

// SeatState derives the seat's current state for rendering and guards.
func (s *State) SeatState(index int) SeatState {
	if s.OwnedSeat(index) {
		if slices.Contains(s.cancelSelected, index) {
			return SeatCancelSelected
		}
		return SeatBookedByMe
	}
	if s.booked[index] {
		return SeatBookedByOther
	}
	if slices.Contains(s.selected, index) {
		return SeatSelected
	}
	return SeatAvailable
}

// ToggleSeat moves a seat between Available and Selected, subject to the
// flow's guards. Booked seats reject all toggle attempts; a rejected
// toggle is a no-op, never an error. Reports whether anything changed.
func (s *State) ToggleSeat(index int) bool {
	if index < 0 || index >= s.SeatCount() {
		return false
	}
	if i := slices.Index(s.selected, index); i >= 0 {
		s.selected = slices.Delete(slices.Clone(s.selected), i, i+1)
		return true
	}
	if s.booked[index] || s.OwnedSeat(index) {
		return false
	}
	if s.flow == FlowSingle && len(s.selected) > 0 {
		return false
	}
	s.selected = append(slices.Clone(s.selected), index)
	return true
}

// ToggleCancelSeat moves an owned seat between Booked-by-me and
// CancelSelected, mirroring ToggleSeat's one-at-a-time discipline in the
// single flow. Seats the patron does not own are rejected.
func (s *State) ToggleCancelSeat(index int) bool {
	if i := slices.Index(s.cancelSelected, index); i >= 0 {
		s.cancelSelected = slices.Delete(slices.Clone(s.cancelSelected), i, i+1)
		return true
	}
	if !s.OwnedSeat(index) {
		return false
	}
	if s.flow == FlowSingle && len(s.cancelSelected) > 0 {
		return false
	}
	s.cancelSelected = append(slices.Clone(s.cancelSelected), index)
	return true
}

// Toggle routes a toggle to the booking or cancellation selection
// depending on whether the patron owns the seat.
func (s *State) Toggle(index int) bool {
	if s.OwnedSeat(index) {
		return s.ToggleCancelSeat(index)
	}
	return s.ToggleSeat(index)
}

// ClearSelection empties the pending booking selection.
func (s *State) ClearSelection() { s.selected = nil }

// ClearCancelSelection empties the pending cancellation queue.
func (s *State) ClearCancelSelection() { s.cancelSelected = nil }

// ApplyLayout reconciles the state against a fresh snapshot: the booked
// set is recomputed from the snapshot's seat enumeration, the owned-seat
// record is pruned to seats still booked, the pruned record is persisted,
// and selections the snapshot invalidated are dropped. All fields are
// replaced atomically with respect to readers of this goroutine; a reader
// never observes a partially pruned record.
func (s *State) ApplyLayout(layout model.Layout) error {
	booked := BookedSet(layout)
	pruned, changed := Prune(s.owned, booked)
	if changed && s.hasOwned {
		if err := s.repo.Save(pruned); err != nil {
			return err
		}
	}

	selected := make([]int, 0, len(s.selected))
	for _, index := range s.selected {
		if index < layout.Rows*layout.Cols && !booked[index] {
			selected = append(selected, index)
		}
	}
	cancelSelected := make([]int, 0, len(s.cancelSelected))
	for _, index := range s.cancelSelected {
		if _, ok := pruned.Find(index); ok {
			cancelSelected = append(cancelSelected, index)
		}
	}

	s.rows = layout.Rows
	s.cols = layout.Cols
	s.booked = booked
	s.owned = pruned
	s.selected = selected
	s.cancelSelected = cancelSelected
	return nil
}

// ApplyBooking merges a receipt from the booking coordinator into the
// owned-seat record. The first booking creates the record; every
// subsequent booking appends to its seats, preserving earlier tickets.
// The booked seats leave the selection and join the booked set.
func (s *State) ApplyBooking(receipt Receipt) error {
	if len(receipt.Seats) == 0 {
		return nil
	}
	merged := s.owned
	if !s.hasOwned {
		merged = model.OwnedRecord{Name: receipt.Patron.Name, Email: receipt.Patron.Email}
	}
	merged.Seats = append(slices.Clone(merged.Seats), receipt.Seats...)
	if err := s.repo.Save(merged); err != nil {
		return err
	}
	s.owned = merged
	s.hasOwned = true

	booked := make(map[int]bool, len(s.booked)+len(receipt.Seats))
	for index := range s.booked {
		booked[index] = true
	}
	selected := slices.Clone(s.selected)
	for _, ownedSeat := range receipt.Seats {
		booked[ownedSeat.SeatNumber] = true
		if i := slices.Index(selected, ownedSeat.SeatNumber); i >= 0 {
			selected = slices.Delete(selected, i, i+1)
		}
	}
	s.booked = booked
	s.selected = selected
	return nil
}

// ApplyCancellation removes a cancelled seat from the owned-seat record,
// the booked set, and both selections.
func (s *State) ApplyCancellation(seatNumber int) error {
	updated := s.owned
	updated.Seats = slices.DeleteFunc(slices.Clone(s.owned.Seats), func(seat model.OwnedSeat) bool {
		return seat.SeatNumber == seatNumber
	})
	if err := s.repo.Save(updated); err != nil {
		return err
	}
	s.owned = updated

	booked := make(map[int]bool, len(s.booked))
	for index := range s.booked {
		if index != seatNumber {
			booked[index] = true
		}
	}
	s.booked = booked
	if i := slices.Index(s.cancelSelected, seatNumber); i >= 0 {
		s.cancelSelected = slices.Delete(slices.Clone(s.cancelSelected), i, i+1)
	}
	if i := slices.Index(s.selected, seatNumber); i >= 0 {
		s.selected = slices.Delete(slices.Clone(s.selected), i, i+1)
	}
	return nil
}

// BookedSet derives booked-seat membership from a snapshot. The index of
// a seat is its position in the snapshot's enumeration, which the service
// guarantees matches row-major seat numbering.
func BookedSet(layout model.Layout) map[int]bool {
	booked := map[int]bool{}
	for index, entry := range layout.Seats {
		if entry.Value.Booked() {
			booked[index] = true
		}
	}
	return booked
}

// Prune filters an owned-seat record down to seats the booked set still
// contains. A seat missing from the booked set was cancelled by some
// other route and the local claim to it is stale.
func Prune(owned model.OwnedRecord, booked map[int]bool) (pruned model.OwnedRecord, changed bool) {
	kept := make([]model.OwnedSeat, 0, len(owned.Seats))
	for _, ownedSeat := range owned.Seats {
		if booked[ownedSeat.SeatNumber] {
			kept = append(kept, ownedSeat)
		}
	}
	pruned = owned
	pruned.Seats = kept
	return pruned, len(kept) != len(owned.Seats)
}
