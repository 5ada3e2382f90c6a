package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Side is the faction a player fought for in a match.
type Side int

const (
	SideRadiant Side = 0
	SideDire    Side = 1
)

func (s Side) String() string {
	switch s {
	case SideRadiant:
		return "radiant"
	case SideDire:
		return "dire"
	default:
		return "?"
	}
}

// ParseSide accepts "radiant" or "dire" in any case.
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radiant":
		return SideRadiant, true
	case "dire":
		return SideDire, true
	default:
		return SideRadiant, false
	}
}

// ---- Raw records as served by the OpenDota API ----

// RawMatch is one entry of /players/{account_id}/matches.
type RawMatch struct {
	MatchID    int64 `json:"match_id"`
	StartTime  int64 `json:"start_time"` // epoch seconds
	Kills      int   `json:"kills"`
	Deaths     int   `json:"deaths"`
	Assists    int   `json:"assists"`
	HeroID     int   `json:"hero_id"`
	PlayerSlot int   `json:"player_slot"` // 0-127 radiant, 128-255 dire
	RadiantWin bool  `json:"radiant_win"`
	GameMode   int   `json:"game_mode"`
}

// Competitor is a tracked player together with the match history fetched for them.
// Matches keep fetch order, which is not guaranteed to be chronological.
type Competitor struct {
	ID          int64
	Name        string
	LastUpdated time.Time
	Matches     []RawMatch
}

// Label returns the display name, falling back to the account id.
func (c *Competitor) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return strconv.FormatInt(c.ID, 10)
}

// ---- Normalized records ----

type KDA struct {
	Kills, Deaths, Assists int
}

func (k KDA) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Kills, k.Deaths, k.Assists)
}

// Ratio is (K+A)/D, or K+A when the player never died.
func (k KDA) Ratio() float64 {
	if k.Deaths == 0 {
		return float64(k.Kills + k.Assists)
	}
	return float64(k.Kills+k.Assists) / float64(k.Deaths)
}

// MatchRecord is the analytics view of one RawMatch.
type MatchRecord struct {
	MatchID int64
	Date    time.Time
	KDA     KDA
	Hero    string // display name when a lookup resolved it, else the raw id
	Side    Side
	Win     bool
}

// ---- Aggregates ----

type HeroUsageEntry struct {
	Hero   string
	Played int
	Won    int
}

func (e HeroUsageEntry) Winrate() float64 {
	return Percent(e.Won, e.Played)
}

// MonthBucket aggregates the matches played in one calendar month.
type MonthBucket struct {
	Year    int
	Month   time.Month
	Played  int
	Won     int
	Winrate float64
}

// Label formats the bucket key as "YYYY-MM".
func (b MonthBucket) Label() string {
	return fmt.Sprintf("%04d-%02d", b.Year, int(b.Month))
}

// HeroComparisonRow is how the subject fared on a hero in matches shared with one pool member.
type HeroComparisonRow struct {
	CompetitorID int64
	Name         string
	Total        int
	Wins         int
	Winrate      float64
}

// DetailRow is a presentation-ready match row for a month drill-down.
type DetailRow struct {
	Index     int
	Day       string // "YYYY-MM-DD"
	MatchID   int64
	Permalink string
	KDA       string
	Side      string
	Hero      string
	Win       bool
}

// CompetitorSummary is a lightweight record for list commands.
type CompetitorSummary struct {
	ID          int64
	Name        string
	LastUpdated time.Time
	Matches     int
}

// Percent returns 100*num/den, or 0 when den is zero.
func Percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) * 100 / float64(den)
}
