package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/heroes"
	"github.com/pable/go-dota-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// PrintCompetitorList prints the stored competitors.
func PrintCompetitorList(w io.Writer, list []model.CompetitorSummary) {
	table := newTable(w)
	table.Header("ACCOUNT_ID", "NAME", "MATCHES", "UPDATED")
	for _, c := range list {
		updated := "—"
		if !c.LastUpdated.IsZero() {
			updated = c.LastUpdated.Local().Format("2006-01-02 15:04")
		}
		table.Append(
			strconv.FormatInt(c.ID, 10),
			c.Name,
			strconv.Itoa(c.Matches),
			updated,
		)
	}
	table.Render()
}

// PrintPlayerSummary prints the one-line win/loss header for a competitor.
func PrintPlayerSummary(w io.Writer, c *model.Competitor, wins, losses int) {
	fmt.Fprintf(w, "\nPlayer: %s (%d)  |  Matches: %d  |  W-L: %d-%d  |  Winrate: %s\n\n",
		c.Label(), c.ID, wins+losses, wins, losses, pct(model.Percent(wins, wins+losses)))
}

// PrintHeroUsage prints hero usage rows; limit <= 0 prints all of them.
func PrintHeroUsage(w io.Writer, usage []model.HeroUsageEntry, limit int) {
	if limit > 0 && len(usage) > limit {
		usage = usage[:limit]
	}
	table := newTable(w)
	table.Header("HERO", "PLAYED", "WON", "WIN%")
	for _, u := range usage {
		table.Append(u.Hero, strconv.Itoa(u.Played), strconv.Itoa(u.Won), pct(u.Winrate()))
	}
	table.Render()
}

// PrintTeamSummary prints the joint record of a roster and its per-side split.
func PrintTeamSummary(w io.Writer, agg *aggregator.TeamAggregate) {
	members := agg.Members()
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Label()
	}
	wins, losses := agg.Record()
	fmt.Fprintf(w, "\nRoster: %v\n", names)
	fmt.Fprintf(w, "Joint matches: %d  |  W-L: %d-%d  |  Winrate: %s  |  Sample: %s\n\n",
		wins+losses, wins, losses, pct(agg.TeamWinrate()), sampleFlag(wins+losses))

	table := newTable(w)
	table.Header("SIDE", "MATCHES", "WIN%")
	for _, side := range []model.Side{model.SideRadiant, model.SideDire} {
		rate, n := agg.SideWinrate(side)
		table.Append(side.String(), strconv.Itoa(n), pct(rate))
	}
	table.Render()
}

// PrintTeamHeroUsage prints each member's most played heroes within the
// roster's joint matches, one block per member.
func PrintTeamHeroUsage(w io.Writer, agg *aggregator.TeamAggregate, limit int) {
	members := agg.Members()
	for i, usage := range agg.HeroUsagePerMember() {
		fmt.Fprintf(w, "\n%s\n", members[i].Label())
		PrintHeroUsage(w, usage, limit)
	}
}

// PrintHeroComparison prints comparison rows ordered by shared matches, most
// first. The input slice is not reordered.
func PrintHeroComparison(w io.Writer, subject, hero string, rows []model.HeroComparisonRow) {
	sorted := append([]model.HeroComparisonRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })

	fmt.Fprintf(w, "\n%s on %s, by teammate or opponent\n\n", subject, hero)
	table := newTable(w)
	table.Header("ACCOUNT_ID", "NAME", "MATCHES", "WINS", "WIN%", "95% CI")
	for _, r := range sorted {
		lo, hi := wilsonCI(r.Wins, r.Total)
		table.Append(
			strconv.FormatInt(r.CompetitorID, 10),
			r.Name,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Wins),
			pct(r.Winrate),
			fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100),
		)
	}
	table.Render()
}

// PrintMonthBuckets prints one row per month, oldest first.
func PrintMonthBuckets(w io.Writer, buckets []model.MonthBucket) {
	table := newTable(w)
	table.Header("MONTH", "PLAYED", "WON", "WIN%", "SAMPLE")
	for _, b := range buckets {
		table.Append(b.Label(), strconv.Itoa(b.Played), strconv.Itoa(b.Won), pct(b.Winrate), sampleFlag(b.Played))
	}
	table.Render()
}

// PrintDetailRows prints the match drill-down of one month.
func PrintDetailRows(w io.Writer, rows []model.DetailRow) {
	table := newTable(w)
	table.Header("#", "DATE", "HERO", "SIDE", "K/D/A", "RESULT", "MATCH")
	for _, r := range rows {
		result := "L"
		if r.Win {
			result = "W"
		}
		table.Append(strconv.Itoa(r.Index+1), r.Day, r.Hero, r.Side, r.KDA, result, r.Permalink)
	}
	table.Render()
}

// PrintHeroes prints the hero lookup table.
func PrintHeroes(w io.Writer, entries []heroes.Entry) {
	table := newTable(w)
	table.Header("ID", "NAME")
	for _, e := range entries {
		table.Append(strconv.Itoa(e.ID), e.Name)
	}
	table.Render()
}

// PrintQueryResult prints the rows of a raw query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
