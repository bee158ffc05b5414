package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cachetrace/cachetrace/sim"
)

var (
	// CLI flags shared by the run and describe subcommands
	tracePath  string // path to the memory-access trace file
	configPath string // optional YAML hierarchy configuration
	logLevel   string // log verbosity level
	statsOut   string // optional YAML output path for the full statistics snapshot

	// Hierarchy geometry flags; defaults come from sim.DefaultHierarchyConfig.
	// When --config is given, only explicitly set flags override the file.
	numCores   uint64
	l1Size     uint64
	l1LineSize uint64
	l1Assoc    uint64
	l2Size     uint64
	l2LineSize uint64
	l2Assoc    uint64
	l3Size     uint64
	l3LineSize uint64
	l3Assoc    uint64
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cachetrace",
	Short: "Trace-driven CPU cache hierarchy simulator",
	Long: "Replays a sequential memory-access trace through a simulated multi-level " +
		"cache hierarchy (private L1 per core, shared L2 and L3) and reports " +
		"hit/miss counts per level.",
}

// runCmd replays a trace using parameters from CLI flags and/or a YAML config
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a memory-access trace through the hierarchy",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := buildHierarchyConfig(cmd)
		if err != nil {
			logrus.Fatalf("Failed to load hierarchy config: %v", err)
		}

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Invalid cache configuration: %v", err)
		}

		logrus.Infof("Starting replay of %s (L1 %dB/%d-way, L2 %dB/%d-way, L3 %dB/%d-way)",
			tracePath, cfg.L1.Size, cfg.L1.Associativity,
			cfg.L2.Size, cfg.L2.Associativity, cfg.L3.Size, cfg.L3.Associativity)

		startTime := time.Now()
		if err := s.ReplayFile(tracePath); err != nil {
			logrus.Fatalf("Replay failed: %v", err)
		}

		s.Metrics.Render(os.Stdout)
		logrus.Infof("Hit ratios: L1 %.2f%%, L2 %.2f%%, L3 %.2f%%",
			s.Metrics.L1.HitRatio()*100, s.Metrics.L2.HitRatio()*100, s.Metrics.L3.HitRatio()*100)

		if statsOut != "" {
			if err := s.Metrics.WriteYAML(statsOut); err != nil {
				logrus.Fatalf("Failed to write statistics: %v", err)
			}
			logrus.Infof("Wrote statistics snapshot to %s", statsOut)
		}

		logrus.Infof("Replay complete in %v.", time.Since(startTime).Round(time.Millisecond))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addHierarchyFlags registers the geometry flags shared by run and describe.
func addHierarchyFlags(cmd *cobra.Command) {
	def := sim.DefaultHierarchyConfig()

	cmd.Flags().StringVar(&configPath, "config", "", "YAML hierarchy configuration file")
	cmd.Flags().Uint64Var(&numCores, "num-cores", def.NumCores, "Advisory core count (L1 caches are created per core id seen in the trace)")

	cmd.Flags().Uint64Var(&l1Size, "l1-size", def.L1.Size, "L1 size in bytes (per core)")
	cmd.Flags().Uint64Var(&l1LineSize, "l1-line-size", def.L1.LineSize, "L1 line size in bytes")
	cmd.Flags().Uint64Var(&l1Assoc, "l1-assoc", def.L1.Associativity, "L1 associativity")
	cmd.Flags().Uint64Var(&l2Size, "l2-size", def.L2.Size, "L2 size in bytes (shared)")
	cmd.Flags().Uint64Var(&l2LineSize, "l2-line-size", def.L2.LineSize, "L2 line size in bytes")
	cmd.Flags().Uint64Var(&l2Assoc, "l2-assoc", def.L2.Associativity, "L2 associativity")
	cmd.Flags().Uint64Var(&l3Size, "l3-size", def.L3.Size, "L3 size in bytes (shared)")
	cmd.Flags().Uint64Var(&l3LineSize, "l3-line-size", def.L3.LineSize, "L3 line size in bytes")
	cmd.Flags().Uint64Var(&l3Assoc, "l3-assoc", def.L3.Associativity, "L3 associativity")
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&tracePath, "trace", "", "Path to the memory-access trace file")
	_ = runCmd.MarkFlagRequired("trace")

	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&statsOut, "stats-out", "", "Write the full statistics snapshot to this YAML file")
	addHierarchyFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}
