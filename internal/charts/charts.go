// Package charts renders interactive HTML charts of the aggregated series.
package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pable/go-dota-metrics/internal/model"
)

// Config holds presentation options shared by every chart.
type Config struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
	Theme    string
}

// DefaultConfig returns the default chart size and theme.
func DefaultConfig() Config {
	return Config{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
	}
}

func globalOpts(cfg Config) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  cfg.Width,
			Height: cfg.Height,
			Theme:  cfg.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    cfg.Title,
			Subtitle: cfg.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	}
}

// WriteMonthlyWinrate renders one point per month bucket: the win rate, with
// the number of matches played as a second series.
func WriteMonthlyWinrate(w io.Writer, buckets []model.MonthBucket, cfg Config) error {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(cfg)...)
	line.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Name: "%"}))

	labels := make([]string, len(buckets))
	rates := make([]opts.LineData, len(buckets))
	played := make([]opts.LineData, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label()
		rates[i] = opts.LineData{Value: fmt.Sprintf("%.1f", b.Winrate)}
		played[i] = opts.LineData{Value: b.Played}
	}

	line.SetXAxis(labels).
		AddSeries("Win Rate", rates).
		AddSeries("Matches", played).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render winrate chart: %w", err)
	}
	return nil
}

// WriteHeroUsage renders played and won counts per hero as grouped bars.
func WriteHeroUsage(w io.Writer, usage []model.HeroUsageEntry, cfg Config) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(cfg)...)

	labels := make([]string, len(usage))
	playedData := make([]opts.BarData, len(usage))
	wonData := make([]opts.BarData, len(usage))
	for i, u := range usage {
		labels[i] = u.Hero
		playedData[i] = opts.BarData{Value: u.Played}
		wonData[i] = opts.BarData{Value: u.Won}
	}

	bar.SetXAxis(labels).
		AddSeries("Played", playedData).
		AddSeries("Won", wonData)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render hero usage chart: %w", err)
	}
	return nil
}

// WriteFile creates path and renders into it with render.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
