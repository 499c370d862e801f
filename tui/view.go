package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/seat"
	"cinema-booking-cli/ticket"
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true)
	styleHint      = lipgloss.NewStyle().Faint(true)
	styleErr       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWarn      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleAvailable = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleOther     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleMine      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	styleCancel    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	styleCursor    = lipgloss.NewStyle().Reverse(true)
	styleScreen    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	styleChip      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")).Padding(0, 1)
)

func hint(s string) string {
	return styleHint.Render(s)
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoading:
		return header + "\n\n" + m.spinner.View() + " Loading seat layout..."
	case stateSubmitting:
		return header + "\n\n" + m.spinner.View() + " Contacting inventory service..."
	case stateGrid:
		return header + "\n\n" + m.renderSeatGrid() + "\n" + m.renderSummary()
	case stateForm:
		return header + "\n\n" + m.renderForm()
	case stateConfirmBooking:
		return header + "\n\n" + m.renderConfirmBooking()
	case stateConfirmCancel:
		return header + "\n\n" + m.renderConfirmCancel()
	case stateTicket:
		return header + "\n\n" + m.renderTicket()
	case stateError:
		msg := "unknown error"
		if m.err != nil {
			msg = m.err.Error()
		}
		return header + "\n\n" + styleErr.Render(msg) + "\n\n" + hint("Press esc to go back, q to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := styleTitle.Render("Cinema Booking")
	sub := []string{
		fmt.Sprintf("Cinema: %s", m.cfg.CinemaName),
		fmt.Sprintf("Movie: %s", m.cfg.MovieTitle),
	}
	if m.st.SeatCount() > 0 {
		sub = append(sub, fmt.Sprintf("Booked: %d/%d", m.st.BookedCount(), m.st.SeatCount()))
	}
	if record, ok := m.st.Owned(); ok && !record.Empty() {
		sub = append(sub, fmt.Sprintf("My seats: %s", strings.Join(m.ownedLabels(record.SeatNumbers()), " ")))
	}
	meta := "\n" + styleHint.Render(strings.Join(sub, " • "))

	warn := ""
	if m.degraded {
		warn = "\n" + styleWarn.Render("offline fallback layout (inventory service unreachable)")
	}
	notice := ""
	if m.notice != "" {
		notice = "\n" + styleWarn.Render(m.notice)
	}

	hints := m.stateHints()
	return title + meta + warn + notice + "\n" + hint(hints)
}

func (m appModel) stateHints() string {
	switch m.state {
	case stateGrid:
		return "arrows move • space toggle • enter confirm • c clear • r refresh • n numbers • q quit"
	case stateForm:
		return "tab switch field • enter continue • esc back"
	case stateConfirmBooking, stateConfirmCancel:
		return "y confirm • n back"
	case stateTicket:
		return "t save ticket • j save json • enter close"
	default:
		return "ctrl+c quit"
	}
}

func (m appModel) ownedLabels(numbers []int) []string {
	return seat.Labels(numbers, m.st.Cols())
}

func (m appModel) renderSeatGrid() string {
	rows, cols := m.st.Rows(), m.st.Cols()
	if rows == 0 || cols == 0 {
		return "No seat layout data."
	}

	cellWidth := 2
	if m.showSeatNumbers {
		if w := len(seat.Label(rows*cols-1, cols)); w > cellWidth {
			cellWidth = w
		}
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		rowName := string(rune('A' + r))
		b.WriteString(fmt.Sprintf("%2s ", rowName))
		for c := 0; c < cols; c++ {
			index := seat.Index(r, c, cols)
			b.WriteString(m.renderCell(index, cellWidth))
			if c < cols-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString(fmt.Sprintf(" %2s\n", rowName))
	}

	gridWidth := cols*(cellWidth+1) - 1
	screen := padCell("SCREEN", gridWidth)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", 3))
	b.WriteString(styleScreen.Render(screen))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", 3))
	b.WriteString(hint("Front / Screen"))
	b.WriteString("\n\n")

	legend := "Legend: [] available • ** selected • XX taken • OO mine • CC cancelling"
	if m.showSeatNumbers {
		legend = "Legend: green available • yellow selected • red taken • blue mine • magenta cancelling"
	}
	b.WriteString(hint(legend))
	b.WriteString("\n")
	return b.String()
}

func (m appModel) renderCell(index, cellWidth int) string {
	state := m.st.SeatState(index)
	text := ""
	if m.showSeatNumbers {
		text = seat.Label(index, m.st.Cols())
	} else {
		switch state {
		case booking.SeatAvailable:
			text = "[]"
		case booking.SeatSelected:
			text = "**"
		case booking.SeatBookedByOther:
			text = "XX"
		case booking.SeatBookedByMe:
			text = "OO"
		case booking.SeatCancelSelected:
			text = "CC"
		}
	}
	text = padCell(text, cellWidth)

	if index == m.cursor {
		return styleCursor.Render(text)
	}
	switch state {
	case booking.SeatSelected:
		return styleSelected.Render(text)
	case booking.SeatBookedByOther:
		return styleOther.Render(text)
	case booking.SeatBookedByMe:
		return styleMine.Render(text)
	case booking.SeatCancelSelected:
		return styleCancel.Render(text)
	default:
		return styleAvailable.Render(text)
	}
}

func (m appModel) renderSummary() string {
	var parts []string
	if selected := m.st.Selected(); len(selected) > 0 {
		parts = append(parts, "Selected: "+strings.Join(seat.Labels(selected, m.st.Cols()), ", "))
	}
	if queued := m.st.CancelSelected(); len(queued) > 0 {
		parts = append(parts, "To cancel: "+strings.Join(seat.Labels(queued, m.st.Cols()), ", "))
	}
	if len(parts) == 0 {
		return hint("No seats selected.")
	}
	return strings.Join(parts, "\n")
}

func (m appModel) renderForm() string {
	labels := strings.Join(seat.Labels(m.st.Selected(), m.st.Cols()), ", ")
	var b strings.Builder
	b.WriteString(styleTitle.Render("Book seats: ") + labels + "\n\n")
	b.WriteString("Name\n" + m.nameInput.View() + "\n\n")
	b.WriteString("Email\n" + m.emailInput.View() + "\n")
	return b.String()
}

func (m appModel) renderConfirmBooking() string {
	patron := m.patron()
	labels := strings.Join(seat.Labels(m.st.Selected(), m.st.Cols()), ", ")
	var b strings.Builder
	b.WriteString(styleChip.Render("Confirm Booking") + "\n\n")
	fmt.Fprintf(&b, "Seats: %s\n", labels)
	fmt.Fprintf(&b, "Name: %s\n", patron.Name)
	fmt.Fprintf(&b, "Email: %s\n\n", patron.Email)
	b.WriteString(hint("One ticket is issued per seat. Press y to book, n to go back."))
	return b.String()
}

func (m appModel) renderConfirmCancel() string {
	queue := m.st.CancelSelected()
	if len(queue) == 0 {
		return hint("Nothing queued for cancellation.")
	}
	record, _ := m.st.Owned()
	first := queue[0]
	entry, _ := record.Find(first)
	var b strings.Builder
	b.WriteString(styleChip.Render("Confirm Cancellation") + "\n\n")
	fmt.Fprintf(&b, "Seat: %s\n", seat.Label(first, m.st.Cols()))
	fmt.Fprintf(&b, "Ticket: %s\n\n", entry.TicketId)
	if len(queue) > 1 {
		b.WriteString(hint("Cancellations are submitted one seat at a time; the rest stay queued.") + "\n\n")
	}
	b.WriteString(hint("Press y to cancel this seat, n to go back."))
	return b.String()
}

func (m appModel) renderTicket() string {
	return ticket.Render(m.lastTicket)
}

func padCell(text string, width int) string {
	if len(text) >= width {
		return text
	}
	left := (width - len(text)) / 2
	right := width - len(text) - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}
