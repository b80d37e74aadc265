package sim

import (
	"fmt"
	"math"
)

// DefaultStuckThreshold is the number of consecutive blocked ticks after which
// a robot takes a random alternative step.
const DefaultStuckThreshold = 5

// Config groups the scalar run parameters. Geometry lives in Layout.
type Config struct {
	NumRobots       int     // clamped to the number of layout spawn cells
	StorageRobots   *int    // nil = NumRobots/2 storage robots, the rest loading
	InitialPackages int     // total packages in the run, shelves pre-fill included
	MaxTime         int64   // tick limit
	PrefillFraction float64 // fraction of each shelf's capacity filled at construction, in [0,1]
	PhaseSize       int     // deliveries per delivery phase (must be > 0)
	StuckThreshold  int     // blocked ticks tolerated before an alternative step (>= 0)
	Seed            int64
}

// DefaultConfig returns the stock warehouse run parameters.
func DefaultConfig() Config {
	return Config{
		NumRobots:       5,
		InitialPackages: 100,
		MaxTime:         1000,
		PrefillFraction: 0,
		PhaseSize:       DefaultPhaseSize,
		StuckThreshold:  DefaultStuckThreshold,
		Seed:            42,
	}
}

// Validate checks value ranges. Robot counts above the spawn list are not an
// error; NewSimulator clamps them.
func (c Config) Validate() error {
	if c.NumRobots < 0 {
		return fmt.Errorf("num robots must be non-negative, got %d", c.NumRobots)
	}
	if c.StorageRobots != nil && (*c.StorageRobots < 0 || *c.StorageRobots > c.NumRobots) {
		return fmt.Errorf("storage robots must be in [0, %d], got %d", c.NumRobots, *c.StorageRobots)
	}
	if c.InitialPackages < 0 {
		return fmt.Errorf("initial packages must be non-negative, got %d", c.InitialPackages)
	}
	if c.MaxTime <= 0 {
		return fmt.Errorf("max time must be positive, got %d", c.MaxTime)
	}
	if math.IsNaN(c.PrefillFraction) || c.PrefillFraction < 0 || c.PrefillFraction > 1 {
		return fmt.Errorf("prefill fraction must be in [0, 1], got %f", c.PrefillFraction)
	}
	if c.PhaseSize <= 0 {
		return fmt.Errorf("phase size must be positive, got %d", c.PhaseSize)
	}
	if c.StuckThreshold < 0 {
		return fmt.Errorf("stuck threshold must be non-negative, got %d", c.StuckThreshold)
	}
	return nil
}

// storageCount returns how many of the n spawned robots get the storage role.
// The default split is half of the requested NumRobots, so clamping takes
// robots from the loading role first.
func (c Config) storageCount(n int) int {
	if c.StorageRobots == nil {
		return min(c.NumRobots/2, n)
	}
	return min(*c.StorageRobots, n)
}
