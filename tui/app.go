// Package tui is the terminal front end. It reads only the reservation
// state container, never raw snapshots, and every committed booking or
// cancellation is followed by a fresh layout fetch so the next
// interaction starts from authoritative state.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/config"
	"cinema-booking-cli/model"
	"cinema-booking-cli/service"
	"cinema-booking-cli/ticket"
)

type appState int

const (
	stateLoading appState = iota
	stateGrid
	stateForm
	stateConfirmBooking
	stateConfirmCancel
	stateSubmitting
	stateTicket
	stateError
)

type appModel struct {
	api service.API
	st  *booking.State
	cfg config.Config

	state     appState
	lastState appState
	err       error

	width  int
	height int

	cursor          int
	degraded        bool
	notice          string
	showSeatNumbers bool

	nameInput  textinput.Model
	emailInput textinput.Model
	focusEmail bool

	spinner spinner.Model

	lastTicket model.Ticket
}

type layoutMsg struct {
	layout   model.Layout
	degraded bool
}

type bookedMsg struct {
	receipt booking.Receipt
	err     error
}

type cancelledMsg struct {
	entry model.OwnedSeat
	err   error
}

type exportMsg struct {
	path string
	err  error
}

type stateErrMsg struct {
	err error
}

// New builds the application model around an inventory API and the
// reservation state.
func New(api service.API, st *booking.State, cfg config.Config) tea.Model {
	m := appModel{
		api:             api,
		st:              st,
		cfg:             cfg,
		state:           stateLoading,
		showSeatNumbers: true,
	}

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Name"
	m.nameInput.CharLimit = 64
	m.nameInput.Focus()

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "Email"
	m.emailInput.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchLayoutCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == stateLoading || m.state == stateSubmitting {
			return m, cmd
		}
		return m, nil

	case layoutMsg:
		if err := m.st.ApplyLayout(msg.layout); err != nil {
			return m, errCmd(err)
		}
		m.degraded = msg.degraded
		m.clampCursor()
		if m.state == stateLoading {
			m.state = stateGrid
		}
		return m, nil

	case bookedMsg:
		// Seats ticketed before a failure stay ticketed; the receipt is
		// merged either way, then the snapshot is refetched so the view
		// reflects authoritative state after either outcome.
		if applyErr := m.st.ApplyBooking(msg.receipt); applyErr != nil {
			m.notice = "warning: could not persist tickets: " + applyErr.Error()
		}
		if msg.err != nil {
			m.err = msg.err
			m.lastState = stateGrid
			m.state = stateError
			return m, tea.Batch(m.fetchLayoutCmd(), m.spinner.Tick)
		}
		m.lastTicket = m.ticketFor(msg.receipt)
		m.state = stateTicket
		return m, tea.Batch(m.fetchLayoutCmd(), m.spinner.Tick)

	case cancelledMsg:
		if msg.err != nil {
			m.err = msg.err
			m.lastState = stateGrid
			m.state = stateError
			return m, nil
		}
		if applyErr := m.st.ApplyCancellation(msg.entry.SeatNumber); applyErr != nil {
			m.notice = "warning: could not persist record: " + applyErr.Error()
		} else {
			m.notice = fmt.Sprintf("Cancelled seat %s (ticket %s)", msg.entry.SeatTitle, msg.entry.TicketId)
		}
		m.state = stateGrid
		return m, tea.Batch(m.fetchLayoutCmd(), m.spinner.Tick)

	case exportMsg:
		if msg.err != nil {
			m.notice = "export failed: " + msg.err.Error()
		} else {
			m.notice = "Saved " + msg.path
		}
		return m, nil

	case stateErrMsg:
		m.err = msg.err
		m.lastState = recoverStateFrom(m.state)
		m.state = stateError
		return m, nil
	}

	if m.state == stateForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateGrid:
		return m.handleGridKey(msg)
	case stateForm:
		return m.handleFormKey(msg)
	case stateConfirmBooking:
		switch msg.String() {
		case "y", "enter":
			m.state = stateSubmitting
			return m, tea.Batch(m.bookCmd(), m.spinner.Tick)
		case "n", "esc":
			m.state = stateForm
			return m, nil
		}
	case stateConfirmCancel:
		switch msg.String() {
		case "y", "enter":
			m.state = stateSubmitting
			return m, tea.Batch(m.cancelCmd(), m.spinner.Tick)
		case "n", "esc":
			m.state = stateGrid
			return m, nil
		}
	case stateTicket:
		switch msg.String() {
		case "t":
			return m, m.exportCmd(false)
		case "j":
			return m, m.exportCmd(true)
		case "enter", "esc", "q":
			// Closing the ticket forces a reconciliation pass before the
			// next mutating action.
			m.state = stateLoading
			return m, tea.Batch(m.fetchLayoutCmd(), m.spinner.Tick)
		}
	case stateError:
		switch msg.String() {
		case "enter", "esc":
			m.err = nil
			m.state = m.lastState
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m appModel) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.st.Cols()
	if cols == 0 {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}
	if msg.Type == tea.KeySpace {
		m.notice = ""
		m.st.Toggle(m.cursor)
		return m, nil
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor >= cols {
			m.cursor -= cols
		}
	case "down", "j":
		if m.cursor+cols < m.st.SeatCount() {
			m.cursor += cols
		}
	case "left", "h":
		if m.cursor%cols > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%cols < cols-1 && m.cursor+1 < m.st.SeatCount() {
			m.cursor++
		}
	case "x":
		m.notice = ""
		m.st.Toggle(m.cursor)
	case "c", "esc":
		m.st.ClearSelection()
		m.st.ClearCancelSelection()
	case "n":
		m.showSeatNumbers = !m.showSeatNumbers
	case "r":
		m.state = stateLoading
		return m, tea.Batch(m.fetchLayoutCmd(), m.spinner.Tick)
	case "enter":
		if len(m.st.CancelSelected()) > 0 {
			m.state = stateConfirmCancel
			return m, nil
		}
		if len(m.st.Selected()) > 0 {
			m.notice = ""
			if record, ok := m.st.Owned(); ok {
				if m.nameInput.Value() == "" {
					m.nameInput.SetValue(record.Name)
				}
				if m.emailInput.Value() == "" {
					m.emailInput.SetValue(record.Email)
				}
			}
			m.focusEmail = false
			m.nameInput.Focus()
			m.emailInput.Blur()
			m.state = stateForm
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateGrid
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.focusEmail = !m.focusEmail
		if m.focusEmail {
			m.nameInput.Blur()
			return m, m.emailInput.Focus()
		}
		m.emailInput.Blur()
		return m, m.nameInput.Focus()
	case "enter":
		if !m.focusEmail {
			m.focusEmail = true
			m.nameInput.Blur()
			return m, m.emailInput.Focus()
		}
		if strings.TrimSpace(m.nameInput.Value()) == "" || strings.TrimSpace(m.emailInput.Value()) == "" {
			m.notice = "name and email are required"
			return m, nil
		}
		m.notice = ""
		m.state = stateConfirmBooking
		return m, nil
	}
	return m.updateForm(msg)
}

func (m appModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var nameCmd, emailCmd tea.Cmd
	m.nameInput, nameCmd = m.nameInput.Update(msg)
	m.emailInput, emailCmd = m.emailInput.Update(msg)
	return m, tea.Batch(nameCmd, emailCmd)
}

func (m *appModel) clampCursor() {
	if count := m.st.SeatCount(); count > 0 && m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) patron() model.Patron {
	return model.Patron{
		Name:  strings.TrimSpace(m.nameInput.Value()),
		Email: strings.TrimSpace(m.emailInput.Value()),
	}
}

func (m appModel) ticketFor(receipt booking.Receipt) model.Ticket {
	labels := make([]string, 0, len(receipt.Seats))
	ticketID := ""
	for _, owned := range receipt.Seats {
		labels = append(labels, owned.SeatTitle)
		if ticketID == "" {
			ticketID = owned.TicketId
		}
	}
	return model.Ticket{
		TicketId:    ticketID,
		Cinema:      m.cfg.CinemaName,
		Movie:       m.cfg.MovieTitle,
		SeatsBooked: labels,
		TotalSeats:  len(labels),
		BookingDate: receipt.BookedAt,
	}
}

func (m appModel) fetchLayoutCmd() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		layout, degraded := api.LoadLayout(context.Background())
		return layoutMsg{layout: layout, degraded: degraded}
	}
}

func (m appModel) bookCmd() tea.Cmd {
	api := m.api
	selection := m.st.Selected()
	booked := m.st.BookedSet()
	cols := m.st.Cols()
	patron := m.patron()
	return func() tea.Msg {
		receipt, err := booking.Submit(context.Background(), api, selection, cols, booked, patron)
		return bookedMsg{receipt: receipt, err: err}
	}
}

func (m appModel) cancelCmd() tea.Cmd {
	api := m.api
	queue := m.st.CancelSelected()
	record, _ := m.st.Owned()
	return func() tea.Msg {
		entry, err := booking.SubmitCancel(context.Background(), api, queue, record)
		return cancelledMsg{entry: entry, err: err}
	}
}

func (m appModel) exportCmd(asJSON bool) tea.Cmd {
	dir := m.cfg.TicketsDir
	t := m.lastTicket
	return func() tea.Msg {
		var path string
		var err error
		if asJSON {
			path, err = ticket.WriteJSON(dir, t)
		} else {
			path, err = ticket.WriteText(dir, t)
		}
		return exportMsg{path: path, err: err}
	}
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return stateErrMsg{err: err}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateForm, stateConfirmBooking:
		return stateForm
	default:
		return stateGrid
	}
}
