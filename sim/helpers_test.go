package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
)

// smallLayout is an 8x6 floor with one shelf at (6,3) served from (5,3).
func smallLayout(capacity int) Layout {
	return Layout{
		Width:         8,
		Height:        6,
		ShelfCapacity: capacity,
		Inbound:       TruckSpec{Marker: grid.Cell{X: 3, Y: 0}, Stop: grid.Cell{X: 3, Y: 1}},
		Outbound:      TruckSpec{Marker: grid.Cell{X: 0, Y: 5}, Stop: grid.Cell{X: 1, Y: 5}},
		Shelves:       []ShelfSpec{{Pos: grid.Cell{X: 6, Y: 3}, Stop: grid.Cell{X: 5, Y: 3}}},
		Spawns:        []grid.Cell{{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3}},
	}
}

func intPtr(v int) *int { return &v }

// testConfig returns a config with n robots of which storage are storage-role.
func testConfig(n, storage, packages int, maxTime int64) Config {
	cfg := DefaultConfig()
	cfg.NumRobots = n
	cfg.StorageRobots = intPtr(storage)
	cfg.InitialPackages = packages
	cfg.MaxTime = maxTime
	return cfg
}

func newTestSimulator(t *testing.T, layout Layout, cfg Config) *Simulator {
	t.Helper()
	s, err := NewSimulator(layout, cfg)
	require.NoError(t, err)
	return s
}

// robotCells returns how many robots sit in each occupied cell.
func robotCells(s *Simulator) map[grid.Cell]int {
	out := map[grid.Cell]int{}
	for y := 0; y < s.Grid.Height(); y++ {
		for x := 0; x < s.Grid.Width(); x++ {
			c := grid.Cell{X: x, Y: y}
			if n := s.Grid.CountKind(c, grid.KindRobot); n > 0 {
				out[c] = n
			}
		}
	}
	return out
}

func actionsOf(r *Robot) []string {
	out := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		out = append(out, string(a.Action))
	}
	return out
}
