package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

var (
	// CLI flags for the run
	seed            int64   // Seed for wander and alternative-step choices
	maxTime         int64   // Tick limit
	logLevel        string  // Log verbosity level
	layoutPath      string  // YAML layout file; empty uses the built-in warehouse
	width           int     // Grid width override
	height          int     // Grid height override
	shelfCapacity   int     // Default shelf capacity override
	numRobots       int     // Requested robots, clamped to the spawn cells
	storageRobots   int     // Storage-role robots; unset means half of the robots
	initialPackages int     // Packages in the run
	prefillFraction float64 // Fraction of each shelf filled at start
	phaseSize       int     // Deliveries per delivery phase
	stuckThreshold  int     // Blocked ticks tolerated before an alternative step
	traceOut        string  // Action trace output path (.zst compresses)
	metricsOut      string  // Metrics JSON output path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "warehouse-sim",
	Short: "Tick-based warehouse robot simulator",
}

// runOptions carries everything buildSimulator needs, so it can be tested without flags.
type runOptions struct {
	LayoutPath    string
	Width         int // 0 keeps the layout's width
	Height        int // 0 keeps the layout's height
	ShelfCapacity int // 0 keeps the layout's capacity
	Config        sim.Config
}

// buildSimulator resolves the layout and constructs the simulator.
func buildSimulator(opts runOptions) (*sim.Simulator, error) {
	layout := sim.DefaultLayout()
	if opts.LayoutPath != "" {
		loaded, err := sim.LoadLayout(opts.LayoutPath)
		if err != nil {
			return nil, err
		}
		layout = *loaded
	}
	if opts.Width > 0 {
		layout.Width = opts.Width
	}
	if opts.Height > 0 {
		layout.Height = opts.Height
	}
	if opts.ShelfCapacity > 0 {
		layout.ShelfCapacity = opts.ShelfCapacity
	}
	return sim.NewSimulator(layout, opts.Config)
}

// writeOutputs saves the optional metrics and trace files.
func writeOutputs(s *sim.Simulator, metricsPath, tracePath string) error {
	if metricsPath != "" {
		if err := s.Metrics.SaveResults(metricsPath); err != nil {
			return err
		}
		logrus.Infof("Metrics written to %s", metricsPath)
	}
	if tracePath != "" {
		rt := s.Trace()
		if err := trace.SaveToFile(tracePath, rt); err != nil {
			return fmt.Errorf("saving trace: %w", err)
		}
		summary := trace.Summarize(rt)
		logrus.Infof("Trace written to %s: %d actions (%d moves, %d pickups, %d deliveries)",
			tracePath, summary.TotalActions, summary.Moves, summary.Pickups, summary.Deliveries)
	}
	return nil
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the warehouse simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.Config{
			NumRobots:       numRobots,
			InitialPackages: initialPackages,
			MaxTime:         maxTime,
			PrefillFraction: prefillFraction,
			PhaseSize:       phaseSize,
			StuckThreshold:  stuckThreshold,
			Seed:            seed,
		}
		if cmd.Flags().Changed("storage-robots") {
			cfg.StorageRobots = &storageRobots
		}
		opts := runOptions{LayoutPath: layoutPath, Config: cfg}
		if cmd.Flags().Changed("width") {
			opts.Width = width
		}
		if cmd.Flags().Changed("height") {
			opts.Height = height
		}
		if cmd.Flags().Changed("shelf-capacity") {
			opts.ShelfCapacity = shelfCapacity
		}

		s, err := buildSimulator(opts)
		if err != nil {
			logrus.Fatalf("Unable to build simulation: %v", err)
		}
		s.Run()
		s.Metrics.Print()

		if err := writeOutputs(s, metricsOut, traceOut); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// layoutCmd prints the built-in warehouse as a starting point for --layout files
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the built-in warehouse layout as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := sim.MarshalLayout(sim.DefaultLayout())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := sim.DefaultConfig()

	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for random robot choices")
	runCmd.Flags().Int64Var(&maxTime, "max-time", defaults.MaxTime, "Tick limit of the run")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Warehouse geometry
	runCmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file (default: built-in 18x12 warehouse)")
	runCmd.Flags().IntVar(&width, "width", 0, "Override the layout's grid width")
	runCmd.Flags().IntVar(&height, "height", 0, "Override the layout's grid height")
	runCmd.Flags().IntVar(&shelfCapacity, "shelf-capacity", sim.DefaultShelfCapacity, "Override the layout's default shelf capacity")

	// Fleet and workload
	runCmd.Flags().IntVar(&numRobots, "robots", defaults.NumRobots, "Number of robots (clamped to the layout's spawn cells)")
	runCmd.Flags().IntVar(&storageRobots, "storage-robots", 0, "Number of storage robots (default: half of the robots)")
	runCmd.Flags().IntVar(&initialPackages, "packages", defaults.InitialPackages, "Total packages in the run")
	runCmd.Flags().Float64Var(&prefillFraction, "prefill", defaults.PrefillFraction, "Fraction of each shelf filled at start, in [0,1]")
	runCmd.Flags().IntVar(&phaseSize, "phase-size", defaults.PhaseSize, "Deliveries per delivery phase")
	runCmd.Flags().IntVar(&stuckThreshold, "stuck-threshold", defaults.StuckThreshold, "Blocked ticks before a robot side-steps")

	// Outputs
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the per-robot action trace as JSON (.zst suffix compresses)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write metrics and per-tick snapshots as JSON")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(layoutCmd)
}
