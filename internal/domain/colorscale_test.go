package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorForBounds(t *testing.T) {
	s := NewColorScale(nil, 800, 1500)

	assert.Equal(t, PaletteViridis[0], s.ColorFor(800))
	assert.Equal(t, PaletteViridis[len(PaletteViridis)-1], s.ColorFor(1500))

	// out-of-range values clamp instead of indexing out of the palette
	assert.Equal(t, PaletteViridis[0], s.ColorFor(0))
	assert.Equal(t, PaletteViridis[len(PaletteViridis)-1], s.ColorFor(10000))
}

func TestColorForFlat(t *testing.T) {
	s := NewFlatScale([]string{"#111111", "#222222"})

	assert.Equal(t, "#111111", s.ColorFor(0))
	assert.Equal(t, "#111111", s.ColorFor(99))
	assert.False(t, s.Contains(99))
}

func TestColorForDegenerateRange(t *testing.T) {
	// single-region dataset: low == high must not divide by zero
	s := NewColorScale(nil, 1500, 1500)
	assert.Equal(t, PaletteViridis[0], s.ColorFor(1500))
}

func TestBounds(t *testing.T) {
	table := &MergedTable{
		Candidates: []string{"A", "B"},
		Rows: []*MergedRow{
			{Region: Region{Name: "Nouakchott"}, Votes: map[string]int64{"A": 1500, "B": 1200}},
			{Region: Region{Name: "Akjoujt"}, Votes: map[string]int64{"A": 800}},
		},
	}

	low, high, ok := table.Bounds("A")
	require.True(t, ok)
	assert.Equal(t, int64(800), low)
	assert.Equal(t, int64(1500), high)

	low, high, ok = table.Bounds("B")
	require.True(t, ok)
	assert.Equal(t, int64(1200), low)
	assert.Equal(t, int64(1200), high)

	_, _, ok = table.Bounds("C")
	assert.False(t, ok)
}

func TestRowTotal(t *testing.T) {
	row := &MergedRow{Votes: map[string]int64{"A": 1500, "B": 1200}}
	assert.Equal(t, int64(2700), row.Total([]string{"A", "B"}))
	assert.Equal(t, int64(1500), row.Total([]string{"A", "C"}))
}
