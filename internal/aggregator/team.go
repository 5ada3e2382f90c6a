package aggregator

import (
	"sort"

	"github.com/pable/go-dota-metrics/internal/model"
)

// jointKey identifies a match together with the side a player fought on.
// Intersecting on both guarantees the members were teammates, not opponents
// in the same game.
type jointKey struct {
	matchID int64
	side    model.Side
}

// TeamAggregate holds the statistics of a roster computed over the matches
// every member played together on the same side.
type TeamAggregate struct {
	members []*model.Competitor
	// perMember[i] are member i's own normalized matches.
	perMember [][]model.MatchRecord
	joint     []model.MatchRecord
	jointIDs  map[int64]struct{}
}

// Build computes the team aggregate for a roster of 0-5 competitors.
func Build(roster []*model.Competitor, heroes HeroNamer, opts Options) (*TeamAggregate, error) {
	if len(roster) > MaxRosterSize {
		return nil, ErrRosterOverflow
	}
	for _, c := range roster {
		if c == nil {
			return nil, ErrInvalidMember
		}
	}

	agg := &TeamAggregate{
		members:   append([]*model.Competitor(nil), roster...),
		perMember: make([][]model.MatchRecord, len(roster)),
		jointIDs:  make(map[int64]struct{}),
	}
	for i, c := range roster {
		matches, err := NormalizedMatches(c, heroes, opts)
		if err != nil {
			return nil, err
		}
		agg.perMember[i] = matches
	}
	if len(roster) == 0 {
		return agg, nil
	}

	base := agg.perMember[0]
	if len(roster) == 1 {
		agg.joint = append([]model.MatchRecord(nil), base...)
		for _, m := range base {
			agg.jointIDs[m.MatchID] = struct{}{}
		}
		return agg, nil
	}

	candidates := keySet(base)
	for _, matches := range agg.perMember[1:] {
		own := keySet(matches)
		for k := range candidates {
			if _, ok := own[k]; !ok {
				delete(candidates, k)
			}
		}
	}

	agg.joint = make([]model.MatchRecord, 0, len(candidates))
	for _, m := range base {
		if _, ok := candidates[jointKey{m.MatchID, m.Side}]; ok {
			agg.joint = append(agg.joint, m)
		}
	}
	for k := range candidates {
		agg.jointIDs[k.matchID] = struct{}{}
	}
	return agg, nil
}

func keySet(matches []model.MatchRecord) map[jointKey]struct{} {
	out := make(map[jointKey]struct{}, len(matches))
	for _, m := range matches {
		out[jointKey{m.MatchID, m.Side}] = struct{}{}
	}
	return out
}

// Members returns the roster the aggregate was built from.
func (t *TeamAggregate) Members() []*model.Competitor {
	return append([]*model.Competitor(nil), t.members...)
}

// JointMatches returns the matches every member played as teammates, in the
// first member's record form and order.
func (t *TeamAggregate) JointMatches() []model.MatchRecord {
	return append([]model.MatchRecord(nil), t.joint...)
}

// JointMatchIDs returns the joint match ids sorted ascending.
func (t *TeamAggregate) JointMatchIDs() []int64 {
	ids := make([]int64, 0, len(t.jointIDs))
	for id := range t.jointIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Record returns joint wins and losses.
func (t *TeamAggregate) Record() (wins, losses int) {
	for _, m := range t.joint {
		if m.Win {
			wins++
		} else {
			losses++
		}
	}
	return wins, losses
}

// TeamWinrate is the win percentage over joint matches, 0 when there are none.
func (t *TeamAggregate) TeamWinrate() float64 {
	wins, losses := t.Record()
	return model.Percent(wins, wins+losses)
}

// SideWinrate is the win percentage and match count of joint matches played
// on the given side. An empty subset yields (0, 0).
func (t *TeamAggregate) SideWinrate(side model.Side) (float64, int) {
	var n, wins int
	for _, m := range t.joint {
		if m.Side != side {
			continue
		}
		n++
		if m.Win {
			wins++
		}
	}
	return model.Percent(wins, n), n
}

// HeroUsagePerMember returns, for each member in roster order, the heroes that
// member played in joint matches according to their own records.
func (t *TeamAggregate) HeroUsagePerMember() [][]model.HeroUsageEntry {
	out := make([][]model.HeroUsageEntry, len(t.perMember))
	for i, matches := range t.perMember {
		var inJoint []model.MatchRecord
		for _, m := range matches {
			if _, ok := t.jointIDs[m.MatchID]; ok {
				inJoint = append(inJoint, m)
			}
		}
		out[i] = HeroUsage(inJoint)
	}
	return out
}

func sortUsage(entries []model.HeroUsageEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Played > entries[j].Played
	})
}

// ---- Roster ----

// Roster is a caller-owned, mutable team of up to five competitors. It
// borrows the competitors and keeps its aggregate current after every change.
// A Roster is not safe for concurrent mutation.
type Roster struct {
	heroes  HeroNamer
	opts    Options
	members []*model.Competitor
	agg     *TeamAggregate
}

// NewRoster builds a roster from an initial member list.
func NewRoster(heroes HeroNamer, opts Options, members ...*model.Competitor) (*Roster, error) {
	agg, err := Build(members, heroes, opts)
	if err != nil {
		return nil, err
	}
	return &Roster{
		heroes:  heroes,
		opts:    opts,
		members: append([]*model.Competitor(nil), members...),
		agg:     agg,
	}, nil
}

// AddMember appends a competitor and recomputes the aggregate.
func (r *Roster) AddMember(c *model.Competitor) error {
	if len(r.members) >= MaxRosterSize {
		return ErrRosterFull
	}
	if c == nil {
		return ErrInvalidMember
	}
	return r.rebuild(append(r.Members(), c))
}

// RemoveMemberAt drops the member at index i and recomputes the aggregate.
func (r *Roster) RemoveMemberAt(i int) error {
	if i < 0 || i >= len(r.members) {
		return ErrIndexOutOfRange
	}
	next := r.Members()
	next = append(next[:i], next[i+1:]...)
	return r.rebuild(next)
}

// rebuild swaps in the new membership only when its aggregate computes.
func (r *Roster) rebuild(members []*model.Competitor) error {
	agg, err := Build(members, r.heroes, r.opts)
	if err != nil {
		return err
	}
	r.members = members
	r.agg = agg
	return nil
}

func (r *Roster) Len() int { return len(r.members) }

func (r *Roster) Members() []*model.Competitor {
	return append([]*model.Competitor(nil), r.members...)
}

// Aggregate returns the statistics for the current membership.
func (r *Roster) Aggregate() *TeamAggregate { return r.agg }

func (r *Roster) JointMatches() []model.MatchRecord { return r.agg.JointMatches() }

func (r *Roster) TeamWinrate() float64 { return r.agg.TeamWinrate() }
