package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cachetrace/cachetrace/sim"
)

// describeCmd validates a hierarchy configuration and prints the derived
// geometry without replaying a trace. Useful for catching bad geometry
// before committing to a long replay.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Validate a hierarchy configuration and print derived geometry",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := buildHierarchyConfig(cmd)
		if err != nil {
			logrus.Fatalf("Failed to load hierarchy config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid cache configuration: %v", err)
		}

		fmt.Printf("Hierarchy configuration (%d cores advisory):\n", cfg.NumCores)
		describeLevel("L1 (per core)", cfg.L1)
		describeLevel("L2 (shared)", cfg.L2)
		describeLevel("L3 (shared)", cfg.L3)
	},
}

func describeLevel(name string, cfg sim.LevelConfig) {
	decomposition := "division"
	if cfg.FastPath() {
		decomposition = "shift/mask"
	}
	fmt.Printf("%-14s %d B, %d B lines, %d-way, %d sets, %s decomposition\n",
		name+":", cfg.Size, cfg.LineSize, cfg.Associativity, cfg.NumSets(), decomposition)
}

func init() {
	addHierarchyFlags(describeCmd)
	rootCmd.AddCommand(describeCmd)
}
