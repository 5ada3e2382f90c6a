package aggregator

import (
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

// Slots used by the builders below.
const (
	radiantSlot = 2
	direSlot    = 130
)

type fakeHeroes map[int]string

func (f fakeHeroes) HeroName(id int) (string, bool) {
	name, ok := f[id]
	return name, ok
}

// unix returns epoch seconds for a UTC calendar date.
func unix(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Unix()
}

// played builds a ranked All Pick match in which the player ended on side
// and either won or lost.
func played(matchID int64, side model.Side, win bool, heroID int) model.RawMatch {
	slot := radiantSlot
	if side == model.SideDire {
		slot = direSlot
	}
	radiantWin := win
	if side == model.SideDire {
		radiantWin = !win
	}
	return model.RawMatch{
		MatchID:    matchID,
		StartTime:  unix(2023, time.January, 1) + matchID,
		Kills:      5,
		Deaths:     3,
		Assists:    7,
		HeroID:     heroID,
		PlayerSlot: slot,
		RadiantWin: radiantWin,
		GameMode:   GameModeRankedAllPick,
	}
}

func competitor(id int64, name string, matches ...model.RawMatch) *model.Competitor {
	return &model.Competitor{ID: id, Name: name, Matches: matches}
}

func matchIDs(records []model.MatchRecord) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.MatchID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
