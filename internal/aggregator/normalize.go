// Package aggregator turns raw OpenDota match lists into normalized match
// records and derives per-player, per-team, per-hero and per-month statistics.
// Every function here is pure: no I/O, no shared state, no locking.
package aggregator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

// direSlotThreshold: slots 0-127 are radiant, 128-255 dire.
const direSlotThreshold = 127

// Game modes counted as ranked/unranked All Pick.
const (
	GameModeAllPick       = 1
	GameModeRankedAllPick = 22
)

// HeroNamer resolves a hero id to its display name.
type HeroNamer interface {
	HeroName(id int) (string, bool)
}

// Options controls which raw matches feed a view.
type Options struct {
	// AllPickOnly drops every match whose game_mode is not All Pick.
	AllPickOnly bool
}

// DefaultOptions applies the All Pick filter to every view.
func DefaultOptions() Options {
	return Options{AllPickOnly: true}
}

func (o Options) include(m model.RawMatch) bool {
	return !o.AllPickOnly || IsAllPick(m.GameMode)
}

// IsAllPick reports whether mode is one of the All Pick game modes.
func IsAllPick(mode int) bool {
	return mode == GameModeAllPick || mode == GameModeRankedAllPick
}

// Classify derives side and outcome from the player slot and the match result.
func Classify(playerSlot int, radiantWin bool) (model.Side, bool, error) {
	if playerSlot < 0 || playerSlot > 255 {
		return model.SideRadiant, false, fmt.Errorf("%w: %d", ErrInvalidPlayerSlot, playerSlot)
	}
	side := model.SideRadiant
	if playerSlot > direSlotThreshold {
		side = model.SideDire
	}
	win := (side == model.SideRadiant && radiantWin) || (side == model.SideDire && !radiantWin)
	return side, win, nil
}

// Normalize converts one raw match into a MatchRecord. heroes may be nil, in
// which case the hero is reported as its raw id.
func Normalize(raw model.RawMatch, heroes HeroNamer) (model.MatchRecord, error) {
	side, win, err := Classify(raw.PlayerSlot, raw.RadiantWin)
	if err != nil {
		return model.MatchRecord{}, fmt.Errorf("match %d: %w", raw.MatchID, err)
	}
	return model.MatchRecord{
		MatchID: raw.MatchID,
		Date:    time.Unix(raw.StartTime, 0).UTC(),
		KDA:     model.KDA{Kills: raw.Kills, Deaths: raw.Deaths, Assists: raw.Assists},
		Hero:    heroName(raw.HeroID, heroes),
		Side:    side,
		Win:     win,
	}, nil
}

func heroName(id int, heroes HeroNamer) string {
	if heroes != nil {
		if name, ok := heroes.HeroName(id); ok {
			return name
		}
	}
	return strconv.Itoa(id)
}
