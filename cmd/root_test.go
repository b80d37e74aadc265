package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

func defaultOptions() runOptions {
	cfg := sim.DefaultConfig()
	cfg.MaxTime = 200
	return runOptions{Config: cfg}
}

func TestBuildSimulator_Defaults_UseBuiltInWarehouse(t *testing.T) {
	s, err := buildSimulator(defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 18, s.Grid.Width())
	assert.Equal(t, 12, s.Grid.Height())
	assert.Len(t, s.Shelves, 16)
	assert.Len(t, s.Robots, 5)
	assert.Equal(t, 100, s.Inbound.Len())
}

func TestBuildSimulator_LayoutFile(t *testing.T) {
	// GIVEN the built-in layout saved to disk with fewer shelves
	layout := sim.DefaultLayout()
	layout.Shelves = layout.Shelves[:4]
	data, err := sim.MarshalLayout(layout)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	// WHEN built from the file
	opts := defaultOptions()
	opts.LayoutPath = path
	s, err := buildSimulator(opts)

	// THEN the file's geometry is used
	require.NoError(t, err)
	assert.Len(t, s.Shelves, 4)
}

func TestBuildSimulator_Overrides(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*runOptions)
		wantErr bool
		check   func(*testing.T, *sim.Simulator)
	}{
		{
			name:   "larger grid",
			mutate: func(o *runOptions) { o.Width, o.Height = 30, 20 },
			check: func(t *testing.T, s *sim.Simulator) {
				assert.Equal(t, 30, s.Grid.Width())
				assert.Equal(t, 20, s.Grid.Height())
			},
		},
		{
			name:    "grid too small for the layout",
			mutate:  func(o *runOptions) { o.Width = 8 },
			wantErr: true,
		},
		{
			name:   "shelf capacity",
			mutate: func(o *runOptions) { o.ShelfCapacity = 3 },
			check: func(t *testing.T, s *sim.Simulator) {
				for _, shelf := range s.Shelves {
					assert.Equal(t, 3, shelf.Capacity)
				}
			},
		},
		{
			name: "explicit storage robots",
			mutate: func(o *runOptions) {
				n := 4
				o.Config.StorageRobots = &n
			},
			check: func(t *testing.T, s *sim.Simulator) {
				storage := 0
				for _, r := range s.Robots {
					if r.Role == sim.RoleStorage {
						storage++
					}
				}
				assert.Equal(t, 4, storage)
			},
		},
		{
			name:    "bad prefill",
			mutate:  func(o *runOptions) { o.Config.PrefillFraction = 1.5 },
			wantErr: true,
		},
		{
			name:    "missing layout file",
			mutate:  func(o *runOptions) { o.LayoutPath = "does-not-exist.yaml" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			tt.mutate(&opts)
			s, err := buildSimulator(opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestSeed_SameSeed_IdenticalRun(t *testing.T) {
	// GIVEN two runs with the same seed and a crowded floor
	run := func() (*trace.RunTrace, sim.SimulationState) {
		opts := defaultOptions()
		opts.Config.NumRobots = 7
		opts.Config.Seed = 123
		s, err := buildSimulator(opts)
		require.NoError(t, err)
		s.Run()
		return s.Trace(), *s.State
	}

	// WHEN both complete
	t1, st1 := run()
	t2, st2 := run()

	// THEN the traces and counters are identical
	assert.Equal(t, t1, t2)
	assert.Equal(t, st1.TimeElapsed, st2.TimeElapsed)
	assert.Equal(t, st1.TotalMovements, st2.TotalMovements)
	assert.Equal(t, st1.TotalPackagesDelivered, st2.TotalPackagesDelivered)
}

func TestWriteOutputs(t *testing.T) {
	// GIVEN a finished run
	s, err := buildSimulator(defaultOptions())
	require.NoError(t, err)
	s.Run()
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "metrics.json")
	tracePath := filepath.Join(dir, "trace.json.zst")

	// WHEN both outputs are requested
	require.NoError(t, writeOutputs(s, metricsPath, tracePath))

	// THEN both files exist and the compressed trace loads back
	assert.FileExists(t, metricsPath)
	rt, err := trace.LoadFromFile(tracePath)
	require.NoError(t, err)
	assert.Equal(t, s.Trace(), rt)
}

func TestWriteOutputs_NothingRequested(t *testing.T) {
	s, err := buildSimulator(defaultOptions())
	require.NoError(t, err)
	assert.NoError(t, writeOutputs(s, "", ""))
}

func TestLayoutCmd_PrintsParsableDefaultLayout(t *testing.T) {
	// GIVEN the layout command writing to a buffer
	var buf bytes.Buffer
	layoutCmd.SetOut(&buf)
	defer layoutCmd.SetOut(nil)

	// WHEN it runs
	require.NoError(t, layoutCmd.RunE(layoutCmd, nil))

	// THEN the output parses back into the built-in layout
	parsed, err := sim.ParseLayout(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultLayout(), *parsed)
}

func TestMetricsPrint_GoesToStdout(t *testing.T) {
	// GIVEN a finished run
	s, err := buildSimulator(defaultOptions())
	require.NoError(t, err)
	s.Run()

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// WHEN the metrics are printed
	s.Metrics.Print()

	// Restore stdout and read captured output
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)

	// THEN the report is on stdout
	assert.Contains(t, buf.String(), "Simulation Metrics")
	assert.Contains(t, buf.String(), "Packages Delivered")
}

func TestRunCmd_Flags(t *testing.T) {
	for _, name := range []string{
		"seed", "max-time", "log", "layout", "width", "height", "shelf-capacity",
		"robots", "storage-robots", "packages", "prefill", "phase-size",
		"stuck-threshold", "trace-out", "metrics-out",
	} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "flag --%s", name)
	}
	assert.Equal(t, "42", runCmd.Flags().Lookup("seed").DefValue)
	assert.Equal(t, "10", runCmd.Flags().Lookup("phase-size").DefValue)
	assert.Equal(t, "5", runCmd.Flags().Lookup("stuck-threshold").DefValue)
}
