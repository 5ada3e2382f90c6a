package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/charts"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var (
	trendMonth string
	trendChart string
)

var trendCmd = &cobra.Command{
	Use:   "trend <id|name> [<id|name>...]",
	Short: "Monthly win rate for a player or roster, with per-month drill-down",
	Long: `Group matches by calendar month (UTC) and print played, won and win rate
per month. With several players, only the roster's joint matches are counted.

--month YYYY-MM lists that month's matches with OpenDota links.
--chart FILE writes the monthly series as an interactive HTML line chart.`,
	Args: cobra.RangeArgs(1, aggregator.MaxRosterSize),
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendMonth, "month", "", "drill down into one month (YYYY-MM)")
	trendCmd.Flags().StringVar(&trendChart, "chart", "", "write the monthly win rate chart (HTML) to this file")
}

func runTrend(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return showTrend(os.Stdout, db, args, trendMonth, trendChart)
}

func showTrend(w io.Writer, db *storage.DB, refs []string, month, chartPath string) error {
	var year int
	var mon time.Month
	if month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("invalid --month %q, want YYYY-MM", month)
		}
		year, mon = t.Year(), t.Month()
	}

	agg, err := buildTeam(db, refs)
	if err != nil {
		return err
	}
	matches := agg.JointMatches()
	label := rosterLabel(agg.Members())
	if len(matches) == 0 {
		fmt.Fprintf(w, "No matches for %s.\n", label)
		return nil
	}

	buckets := aggregator.BucketByMonth(matches)
	fmt.Fprintf(w, "\n%s: %d matches, %.1f%% win rate\n\n", label, len(matches), agg.TeamWinrate())
	report.PrintMonthBuckets(w, buckets)

	if month != "" {
		rows := aggregator.DetailRows(matches, year, mon)
		fmt.Fprintf(w, "\n%s\n", month)
		if len(rows) == 0 {
			fmt.Fprintln(w, "(no matches)")
		} else {
			report.PrintDetailRows(w, rows)
		}
	}

	if chartPath != "" {
		chartCfg := charts.DefaultConfig()
		chartCfg.Title = label + " monthly win rate"
		err := charts.WriteFile(chartPath, func(out io.Writer) error {
			return charts.WriteMonthlyWinrate(out, buckets, chartCfg)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nChart written to %s\n", chartPath)
	}
	return nil
}

func rosterLabel(members []*model.Competitor) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Label()
	}
	return strings.Join(names, " + ")
}
