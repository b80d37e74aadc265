package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
)

func TestDefaultLayout_Valid(t *testing.T) {
	l := DefaultLayout()
	require.NoError(t, l.Validate())
	assert.Len(t, l.Shelves, 16)
	assert.Len(t, l.Spawns, 7)
	assert.Equal(t, grid.Cell{X: 9, Y: 1}, l.Inbound.Stop)
	assert.Equal(t, grid.Cell{X: 1, Y: 10}, l.Outbound.Stop)
}

func TestDefaultLayout_EveryShelfStopAdjacentAndFree(t *testing.T) {
	l := DefaultLayout()
	shelves := map[grid.Cell]bool{}
	for _, s := range l.Shelves {
		shelves[s.Pos] = true
	}
	for _, s := range l.Shelves {
		assert.Equal(t, 1, grid.Manhattan(s.Pos, s.Stop), "shelf %s stop %s", s.Pos, s.Stop)
		assert.False(t, shelves[s.Stop], "stop %s sits on a shelf", s.Stop)
	}
}

func TestLayout_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Layout)
	}{
		{"zero width", func(l *Layout) { l.Width = 0 }},
		{"shelf out of bounds", func(l *Layout) { l.Shelves[0].Pos = grid.Cell{X: 40, Y: 0} }},
		{"stop not adjacent", func(l *Layout) { l.Shelves[0].Stop = grid.Cell{X: 0, Y: 0} }},
		{"stop on shelf", func(l *Layout) { l.Shelves[0].Stop = l.Shelves[1].Pos }},
		{"shared stop", func(l *Layout) {
			l.Shelves = append(l.Shelves, ShelfSpec{Pos: grid.Cell{X: 4, Y: 8}, Stop: l.Shelves[0].Stop})
		}},
		{"truck on shelf", func(l *Layout) { l.Inbound.Marker = l.Shelves[0].Pos }},
		{"truck stop far", func(l *Layout) { l.Outbound.Stop = grid.Cell{X: 3, Y: 10} }},
		{"spawn on obstacle", func(l *Layout) { l.Spawns[0] = l.Outbound.Marker }},
		{"duplicate spawn", func(l *Layout) { l.Spawns[1] = l.Spawns[0] }},
		{"negative capacity", func(l *Layout) { l.Shelves[0].Capacity = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout()
			tt.mutate(&l)
			assert.Error(t, l.Validate())
		})
	}
}

func TestLayout_YAMLRoundTrip(t *testing.T) {
	// GIVEN the default layout written to a file
	data, err := MarshalLayout(DefaultLayout())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	// WHEN loaded back
	got, err := LoadLayout(path)

	// THEN it matches
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), *got)
}

func TestParseLayout_UnknownField_Rejected(t *testing.T) {
	data := []byte(`
width: 5
height: 5
inbound_truck: {marker: {x: 2, y: 0}, stop: {x: 2, y: 1}}
outbound_truck: {marker: {x: 0, y: 4}, stop: {x: 1, y: 4}}
shelfs: []
`)
	_, err := ParseLayout(data)
	assert.Error(t, err)
}

func TestParseLayout_Minimal(t *testing.T) {
	data := []byte(`
width: 6
height: 5
inbound_truck: {marker: {x: 2, y: 0}, stop: {x: 2, y: 1}}
outbound_truck: {marker: {x: 0, y: 4}, stop: {x: 1, y: 4}}
shelves:
  - {pos: {x: 5, y: 2}, stop: {x: 4, y: 2}, capacity: 2}
spawns:
  - {x: 0, y: 1}
`)
	l, err := ParseLayout(data)
	require.NoError(t, err)
	assert.Equal(t, 2, l.capacityOf(l.Shelves[0]))
	assert.Equal(t, []grid.Cell{{X: 0, Y: 1}}, l.Spawns)
}

func TestLoadLayout_MissingFile(t *testing.T) {
	_, err := LoadLayout(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
