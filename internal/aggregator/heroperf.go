package aggregator

import (
	"strings"

	"github.com/pable/go-dota-metrics/internal/model"
)

// HeroResolver maps a hero display name or id to the hero id string.
type HeroResolver interface {
	ResolveID(heroOrName string) string
}

// CompareHero reports how subject fared on one hero in the matches subject
// shared with each pool member. Pool members with no shared hero matches, and
// subject itself, are omitted. Rows follow pool order; callers sort for display.
//
// A nil pool is rejected with ErrEmptyPoolType; an empty one yields no rows.
func CompareHero(subject *model.Competitor, hero string, pool []*model.Competitor, heroes HeroResolver, opts Options) ([]model.HeroComparisonRow, error) {
	if subject == nil {
		return nil, ErrInvalidMember
	}
	if pool == nil {
		return nil, ErrEmptyPoolType
	}
	if len(subject.Matches) == 0 {
		return nil, ErrEmptyHistory
	}

	heroID := strings.TrimSpace(hero)
	if heroes != nil {
		heroID = heroes.ResolveID(hero)
	}

	// Normalize without a name lookup so Hero carries the raw id.
	own, err := NormalizedMatches(subject, nil, opts)
	if err != nil {
		return nil, err
	}
	winByMatch := make(map[int64]bool)
	for _, m := range own {
		if m.Hero == heroID {
			winByMatch[m.MatchID] = m.Win
		}
	}

	var rows []model.HeroComparisonRow
	for _, other := range pool {
		if other == nil {
			return nil, ErrInvalidMember
		}
		if other.ID == subject.ID {
			continue
		}
		ids, err := matchIDSet(other, opts)
		if err != nil {
			return nil, err
		}
		var total, wins int
		for id := range ids {
			win, ok := winByMatch[id]
			if !ok {
				continue
			}
			total++
			if win {
				wins++
			}
		}
		if total == 0 {
			continue
		}
		rows = append(rows, model.HeroComparisonRow{
			CompetitorID: other.ID,
			Name:         other.Label(),
			Total:        total,
			Wins:         wins,
			Winrate:      model.Percent(wins, total),
		})
	}
	return rows, nil
}

func matchIDSet(c *model.Competitor, opts Options) (map[int64]struct{}, error) {
	out := make(map[int64]struct{}, len(c.Matches))
	for _, raw := range c.Matches {
		if !opts.include(raw) {
			continue
		}
		if _, _, err := Classify(raw.PlayerSlot, raw.RadiantWin); err != nil {
			return nil, err
		}
		out[raw.MatchID] = struct{}{}
	}
	return out, nil
}
