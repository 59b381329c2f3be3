package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

func TestRender_PlainLayout(t *testing.T) {
	g, err := model.NewSeatGrid(2, 3)
	require.NoError(t, err)
	require.NoError(t, g.Set(model.Seat{Row: 1, Col: 0}, model.Occupied))

	got := Render(g, []model.Seat{{Row: 0, Col: 2}}, PlainStyles())
	want := strings.Join([]string{
		"    S C R E E N",
		"----------------",
		"B      .   .   O",
		"A      #   .   .",
		"       1   2   3",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRender_SelectionWinsOverBooked(t *testing.T) {
	g, err := model.NewSeatGrid(1, 2)
	require.NoError(t, err)
	require.NoError(t, g.Set(model.Seat{Row: 0, Col: 0}, model.Occupied))

	got := Render(g, []model.Seat{{Row: 0, Col: 0}}, PlainStyles())
	assert.Contains(t, got, "A      O   .")
}

func TestRender_DefaultStylesKeepsSymbols(t *testing.T) {
	g, err := model.NewSeatGrid(3, 4)
	require.NoError(t, err)
	got := Render(g, nil, DefaultStyles())
	assert.Contains(t, got, SymbolFree)
	assert.Contains(t, got, "S C R E E N")
}
