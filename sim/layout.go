package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
)

// DefaultShelfCapacity is used for shelves that do not set their own capacity.
const DefaultShelfCapacity = 10

// Layout is the static geometry of a warehouse floor.
// Loaded from YAML via LoadLayout(path).
type Layout struct {
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	ShelfCapacity int         `yaml:"shelf_capacity,omitempty"` // 0 = DefaultShelfCapacity
	Inbound       TruckSpec   `yaml:"inbound_truck"`
	Outbound      TruckSpec   `yaml:"outbound_truck"`
	Shelves       []ShelfSpec `yaml:"shelves"`
	Spawns        []grid.Cell `yaml:"spawns"` // robot starting cells, in registration order
}

// TruckSpec places a truck: its body blocks pathing, robots use the stop cell.
type TruckSpec struct {
	Marker grid.Cell `yaml:"marker"`
	Stop   grid.Cell `yaml:"stop"`
}

// ShelfSpec places a shelf and the adjacent cell robots serve it from.
type ShelfSpec struct {
	Pos      grid.Cell `yaml:"pos"`
	Stop     grid.Cell `yaml:"stop"`
	Capacity int       `yaml:"capacity,omitempty"` // 0 = layout ShelfCapacity
}

// DefaultLayout returns the 18x12 warehouse: four 2x2 shelf blocks served from
// the aisles beside them, the inbound truck at the top wall and the outbound
// truck on the left wall next to the robot spawn column.
func DefaultLayout() Layout {
	l := Layout{
		Width:         18,
		Height:        12,
		ShelfCapacity: DefaultShelfCapacity,
		Inbound:       TruckSpec{Marker: grid.Cell{X: 9, Y: 0}, Stop: grid.Cell{X: 9, Y: 1}},
		Outbound:      TruckSpec{Marker: grid.Cell{X: 0, Y: 10}, Stop: grid.Cell{X: 1, Y: 10}},
	}
	// Block origins: the left column of each block is served from x-1,
	// the right column from x+2.
	for _, origin := range []grid.Cell{{X: 5, Y: 9}, {X: 5, Y: 3}, {X: 12, Y: 9}, {X: 12, Y: 3}} {
		for dy := 0; dy < 2; dy++ {
			y := origin.Y + dy
			l.Shelves = append(l.Shelves,
				ShelfSpec{Pos: grid.Cell{X: origin.X, Y: y}, Stop: grid.Cell{X: origin.X - 1, Y: y}},
				ShelfSpec{Pos: grid.Cell{X: origin.X + 1, Y: y}, Stop: grid.Cell{X: origin.X + 2, Y: y}},
			)
		}
	}
	for y := 2; y <= 8; y++ {
		l.Spawns = append(l.Spawns, grid.Cell{X: 0, Y: y})
	}
	return l
}

// LoadLayout reads, parses and validates a YAML layout file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes and validates YAML layout data.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return &l, nil
}

// MarshalLayout encodes l as YAML.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encoding layout: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding layout: %w", err)
	}
	return buf.Bytes(), nil
}

// capacityOf resolves a shelf's effective capacity.
func (l Layout) capacityOf(s ShelfSpec) int {
	if s.Capacity > 0 {
		return s.Capacity
	}
	if l.ShelfCapacity > 0 {
		return l.ShelfCapacity
	}
	return DefaultShelfCapacity
}

// Validate checks that the geometry is consistent: everything in bounds,
// static obstacles on distinct cells, every stop cell adjacent to what it
// serves and never on an obstacle, and spawn cells free and distinct.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", l.Width, l.Height)
	}
	if l.ShelfCapacity < 0 {
		return fmt.Errorf("shelf_capacity must be non-negative, got %d", l.ShelfCapacity)
	}
	inBounds := func(c grid.Cell) bool {
		return c.X >= 0 && c.X < l.Width && c.Y >= 0 && c.Y < l.Height
	}

	obstacles := map[grid.Cell]string{}
	addObstacle := func(c grid.Cell, what string) error {
		if !inBounds(c) {
			return fmt.Errorf("%s at %s out of bounds", what, c)
		}
		if prev, ok := obstacles[c]; ok {
			return fmt.Errorf("%s at %s overlaps %s", what, c, prev)
		}
		obstacles[c] = what
		return nil
	}
	if err := addObstacle(l.Inbound.Marker, "inbound truck"); err != nil {
		return err
	}
	if err := addObstacle(l.Outbound.Marker, "outbound truck"); err != nil {
		return err
	}
	for i, s := range l.Shelves {
		if err := addObstacle(s.Pos, fmt.Sprintf("shelf[%d]", i)); err != nil {
			return err
		}
		if s.Capacity < 0 {
			return fmt.Errorf("shelf[%d]: capacity must be non-negative, got %d", i, s.Capacity)
		}
	}

	stops := map[grid.Cell]string{}
	checkStop := func(stop, serves grid.Cell, what string) error {
		if !inBounds(stop) {
			return fmt.Errorf("%s stop %s out of bounds", what, stop)
		}
		if _, blocked := obstacles[stop]; blocked {
			return fmt.Errorf("%s stop %s is on a static obstacle", what, stop)
		}
		if grid.Manhattan(stop, serves) != 1 {
			return fmt.Errorf("%s stop %s is not adjacent to %s", what, stop, serves)
		}
		if prev, ok := stops[stop]; ok {
			return fmt.Errorf("%s stop %s already serves %s", what, stop, prev)
		}
		stops[stop] = what
		return nil
	}
	if err := checkStop(l.Inbound.Stop, l.Inbound.Marker, "inbound truck"); err != nil {
		return err
	}
	if err := checkStop(l.Outbound.Stop, l.Outbound.Marker, "outbound truck"); err != nil {
		return err
	}
	for i, s := range l.Shelves {
		if err := checkStop(s.Stop, s.Pos, fmt.Sprintf("shelf[%d]", i)); err != nil {
			return err
		}
	}

	spawns := map[grid.Cell]bool{}
	for i, c := range l.Spawns {
		if !inBounds(c) {
			return fmt.Errorf("spawn[%d] %s out of bounds", i, c)
		}
		if _, blocked := obstacles[c]; blocked {
			return fmt.Errorf("spawn[%d] %s is on a static obstacle", i, c)
		}
		if spawns[c] {
			return fmt.Errorf("spawn[%d] %s listed twice", i, c)
		}
		spawns[c] = true
	}
	return nil
}
