// Package chart draws the seating chart of a venue as text.  The screen
// banner sits on top, array row 0 is printed directly beneath it and row
// "A" comes last, just above the seat numbers.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

const (
	cellWidth   = 4
	screenLabel = "S C R E E N"

	SymbolFree     = "."
	SymbolBooked   = "#"
	SymbolSelected = "O"
)

// Styles colours the chart.  With Plain set every style is ignored, which
// keeps HTTP output and tests free of escape codes.
type Styles struct {
	Plain    bool
	Screen   lipgloss.Style
	Label    lipgloss.Style
	Free     lipgloss.Style
	Booked   lipgloss.Style
	Selected lipgloss.Style
}

// PlainStyles renders without colour.
func PlainStyles() Styles { return Styles{Plain: true} }

// DefaultStyles is the terminal palette used by the interactive front end.
func DefaultStyles() Styles {
	return Styles{
		Screen:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Label:    lipgloss.NewStyle().Faint(true),
		Free:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Booked:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}

func (s Styles) paint(st lipgloss.Style, text string) string {
	if s.Plain {
		return text
	}
	return st.Render(text)
}

// Render draws g, marking the seats in selected with SymbolSelected.
func Render(g model.GridView, selected []model.Seat, st Styles) string {
	rows, cols := g.Rows(), g.SeatsPerRow()
	marked := model.SeatSet(selected)

	var footer strings.Builder
	footer.WriteString(strings.Repeat(" ", cellWidth))
	for c := 1; c <= cols; c++ {
		footer.WriteString(fmt.Sprintf("%*d", cellWidth, c))
	}
	width := footer.Len()

	var b strings.Builder
	b.WriteString(centre(screenLabel, width, st))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", width))
	b.WriteString("\n")
	for r := 0; r < rows; r++ {
		b.WriteString(st.paint(st.Label, fmt.Sprintf("%-*s", cellWidth, utils.RowLetter(r, rows))))
		for c := 0; c < cols; c++ {
			b.WriteString(strings.Repeat(" ", cellWidth-1))
			b.WriteString(symbol(g, marked, r, c, st))
		}
		b.WriteString("\n")
	}
	b.WriteString(st.paint(st.Label, footer.String()))
	b.WriteString("\n")
	return b.String()
}

func symbol(g model.GridView, marked map[model.Seat]struct{}, r, c int, st Styles) string {
	if _, ok := marked[model.Seat{Row: r, Col: c}]; ok {
		return st.paint(st.Selected, SymbolSelected)
	}
	if free, err := g.IsFree(r, c); err == nil && !free {
		return st.paint(st.Booked, SymbolBooked)
	}
	return st.paint(st.Free, SymbolFree)
}

// centre pads label so it sits in the middle of the seat area.
func centre(label string, width int, st Styles) string {
	pad := (width + cellWidth - len(label)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + st.paint(st.Screen, label)
}
