package aggregator

import (
	"sort"
	"strconv"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

// MatchPermalinkBase is the public match page prefix.
const MatchPermalinkBase = "https://www.opendota.com/matches/"

type monthKey struct {
	year  int
	month time.Month
}

// BucketByMonth groups matches by the calendar month (UTC) they were played
// in. Buckets are returned oldest first and are never empty.
func BucketByMonth(matches []model.MatchRecord) []model.MonthBucket {
	byKey := make(map[monthKey]*model.MonthBucket)
	for _, m := range matches {
		d := m.Date.UTC()
		k := monthKey{d.Year(), d.Month()}
		b, ok := byKey[k]
		if !ok {
			b = &model.MonthBucket{Year: k.year, Month: k.month}
			byKey[k] = b
		}
		b.Played++
		if m.Win {
			b.Won++
		}
	}

	out := make([]model.MonthBucket, 0, len(byKey))
	for _, b := range byKey {
		b.Winrate = model.Percent(b.Won, b.Played)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// DetailRows returns the matches of one month bucket, in their original
// relative order, formatted for display.
func DetailRows(matches []model.MatchRecord, year int, month time.Month) []model.DetailRow {
	var out []model.DetailRow
	for _, m := range matches {
		d := m.Date.UTC()
		if d.Year() != year || d.Month() != month {
			continue
		}
		out = append(out, model.DetailRow{
			Index:     len(out),
			Day:       d.Format("2006-01-02"),
			MatchID:   m.MatchID,
			Permalink: Permalink(m.MatchID),
			KDA:       m.KDA.String(),
			Side:      m.Side.String(),
			Hero:      m.Hero,
			Win:       m.Win,
		})
	}
	return out
}

// Permalink is the public match page for a match id.
func Permalink(matchID int64) string {
	return MatchPermalinkBase + strconv.FormatInt(matchID, 10)
}

// SortByDate orders matches oldest first, keeping fetch order for ties.
func SortByDate(matches []model.MatchRecord) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})
}
