package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/charts"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var (
	playerTop   int
	playerChart string
)

// playerCmd prints win/loss and hero usage for one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <id|name> [<id|name>...]",
	Short: "Win rate and most played heroes for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerTop, "top", 10, "number of heroes to show (0 = all)")
	playerCmd.Flags().StringVar(&playerChart, "chart", "", "write a hero usage chart (HTML) for a single player")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	if playerChart != "" && len(args) != 1 {
		return fmt.Errorf("--chart needs exactly one player")
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return showPlayers(os.Stdout, db, args, playerTop, playerChart)
}

func showPlayers(w io.Writer, db *storage.DB, refs []string, top int, chartPath string) error {
	lookup, err := loadHeroes(db)
	if err != nil {
		return err
	}
	opts := analysisOptions()

	for _, ref := range refs {
		c, err := loadCompetitor(db, ref)
		if err != nil {
			return err
		}
		wins, losses, err := aggregator.WinrateCounts(c, opts)
		if err != nil {
			return err
		}
		matches, err := aggregator.NormalizedMatches(c, lookup, opts)
		if err != nil {
			return err
		}
		usage := aggregator.HeroUsage(matches)

		report.PrintPlayerSummary(w, c, wins, losses)
		report.PrintHeroUsage(w, usage, top)

		if chartPath != "" {
			chartCfg := charts.DefaultConfig()
			chartCfg.Title = c.Label() + " hero usage"
			err := charts.WriteFile(chartPath, func(out io.Writer) error {
				return charts.WriteHeroUsage(out, usage, chartCfg)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\nChart written to %s\n", chartPath)
		}
	}
	return nil
}
