package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cachetrace/cachetrace/sim"
)

// LoadHierarchyConfig reads a hierarchy configuration from a YAML file.
// Fields omitted from the file keep the built-in defaults, so a config
// can override just one level.
func LoadHierarchyConfig(path string) (*sim.HierarchyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hierarchy config: %w", err)
	}
	cfg := sim.DefaultHierarchyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing hierarchy config: %w", err)
	}
	return &cfg, nil
}

// hierarchyConfigFromFlags assembles a configuration from the geometry
// flag values alone.
func hierarchyConfigFromFlags() sim.HierarchyConfig {
	return sim.HierarchyConfig{
		NumCores: numCores,
		L1:       sim.LevelConfig{Size: l1Size, LineSize: l1LineSize, Associativity: l1Assoc},
		L2:       sim.LevelConfig{Size: l2Size, LineSize: l2LineSize, Associativity: l2Assoc},
		L3:       sim.LevelConfig{Size: l3Size, LineSize: l3LineSize, Associativity: l3Assoc},
	}
}

// buildHierarchyConfig resolves the effective configuration: flag values
// when no config file is given, otherwise the file with explicitly set
// flags layered on top.
func buildHierarchyConfig(cmd *cobra.Command) (sim.HierarchyConfig, error) {
	if configPath == "" {
		return hierarchyConfigFromFlags(), nil
	}

	cfg, err := LoadHierarchyConfig(configPath)
	if err != nil {
		return sim.HierarchyConfig{}, err
	}

	overrides := []struct {
		flag string
		dst  *uint64
		val  uint64
	}{
		{"num-cores", &cfg.NumCores, numCores},
		{"l1-size", &cfg.L1.Size, l1Size},
		{"l1-line-size", &cfg.L1.LineSize, l1LineSize},
		{"l1-assoc", &cfg.L1.Associativity, l1Assoc},
		{"l2-size", &cfg.L2.Size, l2Size},
		{"l2-line-size", &cfg.L2.LineSize, l2LineSize},
		{"l2-assoc", &cfg.L2.Associativity, l2Assoc},
		{"l3-size", &cfg.L3.Size, l3Size},
		{"l3-line-size", &cfg.L3.LineSize, l3LineSize},
		{"l3-assoc", &cfg.L3.Associativity, l3Assoc},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.val
		}
	}
	return *cfg, nil
}
