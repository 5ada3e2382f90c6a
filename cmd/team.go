package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var teamTop int

// teamCmd analyses the matches a roster played together on the same side.
var teamCmd = &cobra.Command{
	Use:   "team <id|name> [<id|name>...]",
	Short: "Joint matches, team and side win rate for a roster of up to five",
	Long: `Find the matches every listed player took part in on the same side and
report the roster's win rate overall and per side, plus each member's most played
heroes in those matches.`,
	Args: cobra.RangeArgs(1, aggregator.MaxRosterSize),
	RunE: runTeam,
}

func init() {
	teamCmd.Flags().IntVar(&teamTop, "top", 5, "heroes to show per member (0 = all)")
}

func runTeam(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return showTeam(os.Stdout, db, args, teamTop)
}

func showTeam(w io.Writer, db *storage.DB, refs []string, top int) error {
	agg, err := buildTeam(db, refs)
	if err != nil {
		return err
	}
	report.PrintTeamSummary(w, agg)
	report.PrintTeamHeroUsage(w, agg, top)
	return nil
}

func buildTeam(db *storage.DB, refs []string) (*aggregator.TeamAggregate, error) {
	lookup, err := loadHeroes(db)
	if err != nil {
		return nil, err
	}
	roster, err := loadCompetitors(db, refs)
	if err != nil {
		return nil, err
	}
	agg, err := aggregator.Build(roster, lookup, analysisOptions())
	if err != nil {
		return nil, fmt.Errorf("build team: %w", err)
	}
	return agg, nil
}
