package aggregator

import (
	"github.com/pable/go-dota-metrics/internal/model"
)

// NormalizedMatches normalizes a competitor's history, keeping fetch order.
// Callers that need chronological order sort the result themselves.
func NormalizedMatches(c *model.Competitor, heroes HeroNamer, opts Options) ([]model.MatchRecord, error) {
	if c == nil {
		return nil, ErrInvalidMember
	}
	out := make([]model.MatchRecord, 0, len(c.Matches))
	for _, raw := range c.Matches {
		if !opts.include(raw) {
			continue
		}
		rec, err := Normalize(raw, heroes)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// WinrateCounts tallies wins and losses over the competitor's history.
// An empty history yields (0, 0).
func WinrateCounts(c *model.Competitor, opts Options) (wins, losses int, err error) {
	if c == nil {
		return 0, 0, ErrInvalidMember
	}
	for _, raw := range c.Matches {
		if !opts.include(raw) {
			continue
		}
		_, win, err := Classify(raw.PlayerSlot, raw.RadiantWin)
		if err != nil {
			return 0, 0, err
		}
		if win {
			wins++
		} else {
			losses++
		}
	}
	return wins, losses, nil
}

// Winrate is the competitor's overall win percentage, 0 when there are no matches.
func Winrate(c *model.Competitor, opts Options) (float64, error) {
	wins, losses, err := WinrateCounts(c, opts)
	if err != nil {
		return 0, err
	}
	return model.Percent(wins, wins+losses), nil
}

// HeroUsage tallies played/won per hero over a list of matches, most played
// first; ties keep first-seen order.
func HeroUsage(matches []model.MatchRecord) []model.HeroUsageEntry {
	var out []model.HeroUsageEntry
	index := make(map[string]int)
	for _, m := range matches {
		i, ok := index[m.Hero]
		if !ok {
			i = len(out)
			index[m.Hero] = i
			out = append(out, model.HeroUsageEntry{Hero: m.Hero})
		}
		out[i].Played++
		if m.Win {
			out[i].Won++
		}
	}
	sortUsage(out)
	return out
}
