package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate_RejectsOutOfRange(t *testing.T) {
	three := 3
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative robots", func(c *Config) { c.NumRobots = -1 }},
		{"storage above robots", func(c *Config) { c.NumRobots = 2; c.StorageRobots = &three }},
		{"negative packages", func(c *Config) { c.InitialPackages = -5 }},
		{"zero max time", func(c *Config) { c.MaxTime = 0 }},
		{"prefill above one", func(c *Config) { c.PrefillFraction = 1.5 }},
		{"prefill NaN", func(c *Config) { c.PrefillFraction = math.NaN() }},
		{"zero phase size", func(c *Config) { c.PhaseSize = 0 }},
		{"negative stuck threshold", func(c *Config) { c.StuckThreshold = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_StorageCount(t *testing.T) {
	one := 1
	cfg := DefaultConfig()
	assert.Equal(t, 2, cfg.storageCount(5), "default is half rounded down")

	// GIVEN 10 requested robots clamped to 7 spawn cells
	cfg.NumRobots = 10
	// THEN the split follows the requested count
	assert.Equal(t, 5, cfg.storageCount(7))
	assert.Equal(t, 3, cfg.storageCount(3), "never more than the robots spawned")

	cfg.NumRobots = 1
	assert.Equal(t, 0, cfg.storageCount(1))

	cfg.StorageRobots = &one
	assert.Equal(t, 1, cfg.storageCount(1))
	assert.Equal(t, 0, cfg.storageCount(0), "clamped to the robots actually spawned")
}
