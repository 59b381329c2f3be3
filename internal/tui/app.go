// Package tui is the interactive box-office front end.  It walks through
// the same screens as the original prompt loop: venue setup, main menu,
// booking with seat preview, and booking lookup.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/chart"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/service"
)

type appState int

const (
	stateSetup appState = iota
	stateMenu
	stateTickets
	stateSelection
	stateCheck
	stateDone
)

const goodbye = "Thank you for using GIC Cinemas system. Bye!"

// Options configure the front end.  With Venue set the setup screen is
// skipped.
type Options struct {
	Venue     *service.Venue
	Styles    chart.Styles
	Publisher service.EventPublisher
	Log       *zap.Logger
}

type appModel struct {
	opts  Options
	venue *service.Venue

	state  appState
	input  textinput.Model
	notice string
	isErr  bool

	// booking in progress
	count     int
	pending   model.BookingID
	selection []model.Seat

	// last looked-up booking
	checked     model.BookingID
	checkedSeat []model.Seat

	noticeStyle lipgloss.Style
	errStyle    lipgloss.Style
	titleStyle  lipgloss.Style
}

// New returns the root bubbletea model.
func New(opts Options) tea.Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 64
	in.Focus()

	m := appModel{
		opts:        opts,
		venue:       opts.Venue,
		state:       stateSetup,
		input:       in,
		noticeStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		titleStyle:  lipgloss.NewStyle().Bold(true),
	}
	if m.venue != nil {
		m.state = stateMenu
	}
	return m
}

func (m appModel) Init() tea.Cmd { return textinput.Blink }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.abandon()
			m.state = stateDone
			return m, tea.Quit
		case tea.KeyEsc:
			if m.state == stateTickets || m.state == stateSelection || m.state == stateCheck {
				m.abandon()
				m.toMenu("", false)
			}
			return m, nil
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			return m.submit(value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) submit(value string) (tea.Model, tea.Cmd) {
	m.notice, m.isErr = "", false
	switch m.state {
	case stateSetup:
		m.setup(value)
	case stateMenu:
		switch value {
		case "1":
			m.state = stateTickets
		case "2":
			m.state = stateCheck
			m.checked, m.checkedSeat = "", nil
		case "3":
			m.state = stateDone
			return m, tea.Quit
		default:
			m.fail("Invalid choice. Please enter 1, 2, or 3.")
		}
	case stateTickets:
		m.tickets(value)
	case stateSelection:
		m.selectSeats(value)
	case stateCheck:
		m.check(value)
	}
	return m, nil
}

func (m *appModel) setup(value string) {
	title, rows, cols, problem := parseSetup(value)
	if problem != "" {
		m.fail(problem)
		return
	}
	v, err := service.NewVenue(title, rows, cols,
		service.WithPublisher(m.opts.Publisher), service.WithLogger(m.opts.Log))
	if err != nil {
		m.fail(err.Error())
		return
	}
	m.venue = v
	m.state = stateMenu
}

func (m *appModel) tickets(value string) {
	if value == "" {
		m.toMenu("", false)
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		m.fail("Please enter a number of tickets.")
		return
	}
	if n <= 0 {
		m.fail("Number of tickets must be positive.")
		return
	}
	if avail := m.venue.Available(); n > avail {
		m.fail(fmt.Sprintf("Sorry, there are only %d seats available.", avail))
		return
	}
	seats, err := m.venue.PreviewDefault(n)
	if err != nil {
		m.fail(err.Error())
		return
	}
	m.count = n
	m.selection = seats
	m.pending = m.venue.NextIdentifier()
	m.state = stateSelection
	m.notice = fmt.Sprintf("Successfully reserved %d %s tickets.", n, m.venue.Title())
}

func (m *appModel) selectSeats(value string) {
	if value != "" {
		seats, err := m.venue.PreviewFrom(m.count, value)
		if err != nil {
			m.fail(err.Error())
			return
		}
		m.selection = seats
		return
	}

	id, err := m.venue.Confirm(context.Background(), m.selection, m.pending)
	if err != nil {
		m.abandon()
		m.toMenu("Booking failed: "+err.Error(), true)
		return
	}
	m.pending, m.selection = "", nil
	m.toMenu(fmt.Sprintf("Booking id: %s confirmed.", id), false)
}

func (m *appModel) check(value string) {
	if value == "" {
		m.toMenu("", false)
		return
	}
	id := model.BookingID(value).Normalize()
	seats, err := m.venue.Lookup(id)
	if err != nil {
		m.checked, m.checkedSeat = "", nil
		m.fail("Invalid booking ID. Please check and try again.")
		return
	}
	m.checked, m.checkedSeat = id, seats
}

// abandon gives back an identifier reserved for a booking that was never
// confirmed.
func (m *appModel) abandon() {
	if m.pending != "" && m.venue != nil {
		m.venue.Release(m.pending)
	}
	m.pending, m.selection, m.count = "", nil, 0
}

func (m *appModel) toMenu(notice string, isErr bool) {
	m.state = stateMenu
	m.notice, m.isErr = notice, isErr
}

func (m *appModel) fail(msg string) {
	m.notice, m.isErr = msg, true
}

func (m appModel) View() string {
	var b strings.Builder
	switch m.state {
	case stateDone:
		return goodbye + "\n"
	case stateSetup:
		b.WriteString(m.paint(m.titleStyle, "Welcome to GIC Cinemas"))
		b.WriteString("\n\nPlease define movie title and seating map in [Title] [Row] [SeatsPerRow] format:\n")
	case stateMenu:
		b.WriteString(m.paint(m.titleStyle, "Welcome to GIC Cinemas"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "[1] Book tickets for %s (%d seats available)\n", m.venue.Title(), m.venue.Available())
		b.WriteString("[2] Check bookings\n[3] Exit\n")
		b.WriteString("Please enter your selection:\n")
	case stateTickets:
		b.WriteString("Enter number of tickets to book, or enter blank to go back to main menu:\n")
	case stateSelection:
		fmt.Fprintf(&b, "Booking id: %s\nSelected seats:\n\n", m.pending)
		b.WriteString(m.venue.Chart(m.selection, m.opts.Styles))
		b.WriteString("\nEnter blank to accept seat selection, or enter new seating position:\n")
	case stateCheck:
		if m.checked != "" {
			fmt.Fprintf(&b, "Booking id: %s\nSelected seats:\n\n", m.checked)
			b.WriteString(m.venue.Chart(m.checkedSeat, m.opts.Styles))
			b.WriteString("\n")
		}
		b.WriteString("Enter booking id, or enter blank to go back to main menu:\n")
	}
	if m.notice != "" {
		st := m.noticeStyle
		if m.isErr {
			st = m.errStyle
		}
		b.WriteString(m.paint(st, m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m appModel) paint(st lipgloss.Style, s string) string {
	if m.opts.Styles.Plain {
		return s
	}
	return st.Render(s)
}

// parseSetup reads "[Title] [Row] [SeatsPerRow]".  The title may contain
// spaces; the last two fields are the dimensions.  A non-empty problem is
// shown to the user as is.
func parseSetup(value string) (title string, rows, cols int, problem string) {
	fields := strings.Fields(value)
	n := len(fields)
	if n < 3 {
		return "", 0, 0, "Please enter the title, number of rows and seats per row."
	}
	rows, errRows := strconv.Atoi(fields[n-2])
	cols, errCols := strconv.Atoi(fields[n-1])
	switch {
	case errRows != nil || errCols != nil:
		return "", 0, 0, "Rows and seats per row must be numbers."
	case rows <= 0 || cols <= 0:
		return "", 0, 0, "Rows and seats must be positive numbers."
	case rows > model.MaxRows:
		return "", 0, 0, fmt.Sprintf("Maximum %d rows supported (A-Z).", model.MaxRows)
	case cols > model.MaxSeatsPerRow:
		return "", 0, 0, fmt.Sprintf("Maximum %d seats per row supported.", model.MaxSeatsPerRow)
	}
	return strings.Join(fields[:n-2], " "), rows, cols, ""
}
