// duotris is a two-player falling-block game for one terminal.
//
// Usage:
//
//	duotris                  - Start a match (same as play)
//	duotris play             - Start a match
//	duotris scores           - Show top scores and recent matches
//
// Global flags:
//
//	--config <path>     - Config YAML (default: ~/.duotris/config.yaml)
//	--db <path>         - Scores database (default: ~/.duotris/scores.db)
//	--seed <value>      - RNG seed for reproducible piece sequences
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hersh/duotris/internal/config"
)

var (
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "duotris",
	Short: "Two-player falling blocks in your terminal",
	Long: `duotris runs two falling-block boards side by side, one per player,
sharing a keyboard. The player with the higher score leads.

Examples:
  duotris
  duotris play --seed 42
  duotris scores`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig resolves the configuration: file, then environment, then any
// flags given on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
