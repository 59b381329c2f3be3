package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// ErrInvalidSeatLabel wraps every seat position parsing failure.
var ErrInvalidSeatLabel = errors.New("invalid seat position")

// ParseSeatPosition converts a human seat label such as "B03" into array
// indices.  Row letters run from A (array row rows-1) upward; seat numbers
// are 1-based.  Input is trimmed and upper-cased before parsing.
func ParseSeatPosition(pos string, rows, seatsPerRow int) (row, col int, err error) {
	p := strings.ToUpper(strings.TrimSpace(pos))
	if len(p) < 2 {
		return 0, 0, labelErr("seat position must include both row and column (e.g., A5)")
	}
	letter := p[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, labelErr("row must be a letter")
	}
	if int(letter-'A') >= rows {
		return 0, 0, labelErr(fmt.Sprintf("invalid row '%c', use A-%s", letter, RowLetter(0, rows)))
	}
	num, convErr := strconv.Atoi(p[1:])
	if convErr != nil || num < 1 || num > seatsPerRow {
		return 0, 0, labelErr(fmt.Sprintf("column must be a number between 1-%d", seatsPerRow))
	}
	return rows - 1 - int(letter-'A'), num - 1, nil
}

func labelErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSeatLabel, msg)
}

// RowLetter returns the letter printed for array row in a grid of rows
// rows, or "" when row is out of range.
func RowLetter(row, rows int) string {
	idx := rows - 1 - row
	if row < 0 || row >= rows || idx >= model.MaxRows {
		return ""
	}
	return string(rune('A' + idx))
}

// SeatLabel renders a seat as a label such as "A1".
func SeatLabel(s model.Seat, rows int) string {
	return RowLetter(s.Row, rows) + strconv.Itoa(s.Col+1)
}

// SeatLabels renders every seat of a selection.
func SeatLabels(seats []model.Seat, rows int) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = SeatLabel(s, rows)
	}
	return out
}

// ParseSeatLabels is the inverse of SeatLabels.  It stops at the first bad
// label.
func ParseSeatLabels(labels []string, rows, seatsPerRow int) ([]model.Seat, error) {
	seats := make([]model.Seat, 0, len(labels))
	for _, lbl := range labels {
		r, c, err := ParseSeatPosition(lbl, rows, seatsPerRow)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", lbl, err)
		}
		seats = append(seats, model.Seat{Row: r, Col: c})
	}
	return seats, nil
}
