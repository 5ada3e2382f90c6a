package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/config"
)

var (
	dbPath     string
	configPath string
	allModes   bool

	cfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "dotametrics",
	Short: "Dota 2 match history metrics tool",
	Long: `Fetch Dota 2 match histories from OpenDota and compute win-rate and
hero-usage statistics for single players and rosters of up to five.

Views count All Pick matches only (game modes 1 and 22) unless --all-modes is set.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default from config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().BoolVar(&allModes, "all-modes", false, "include every game mode, not only All Pick")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(heroesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(heroCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadConfig resolves settings before any command runs. Explicit flags win
// over the config file and environment.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Resolve(configPath, ".env", filepath.Join(config.Dir(), ".env"))
	if err != nil {
		return err
	}
	cfg = loaded
	if dbPath == "" {
		dbPath = cfg.Store.DBPath
	}
	if cfg.Analysis.AllModes && !cmd.Flags().Changed("all-modes") {
		allModes = true
	}
	return nil
}
