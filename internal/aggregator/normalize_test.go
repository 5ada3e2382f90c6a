package aggregator

import (
	"errors"
	"testing"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		slot       int
		radiantWin bool
		wantSide   model.Side
		wantWin    bool
	}{
		{50, true, model.SideRadiant, true},
		{50, false, model.SideRadiant, false},
		{200, true, model.SideDire, false},
		{200, false, model.SideDire, true},
		{127, true, model.SideRadiant, true}, // last radiant slot
		{128, false, model.SideDire, true},   // first dire slot
		{0, true, model.SideRadiant, true},
		{255, false, model.SideDire, true},
	}
	for _, c := range cases {
		side, win, err := Classify(c.slot, c.radiantWin)
		if err != nil {
			t.Fatalf("Classify(%d, %v): %v", c.slot, c.radiantWin, err)
		}
		if side != c.wantSide || win != c.wantWin {
			t.Errorf("Classify(%d, %v) = (%v, %v), want (%v, %v)",
				c.slot, c.radiantWin, side, win, c.wantSide, c.wantWin)
		}
	}
}

func TestClassify_RejectsOutOfRangeSlot(t *testing.T) {
	for _, slot := range []int{-1, 256, 1000} {
		if _, _, err := Classify(slot, true); !errors.Is(err, ErrInvalidPlayerSlot) {
			t.Errorf("slot %d: expected ErrInvalidPlayerSlot, got %v", slot, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	raw := model.RawMatch{
		MatchID: 42, StartTime: unix(2023, time.March, 9),
		Kills: 10, Deaths: 2, Assists: 15,
		HeroID: 74, PlayerSlot: 200, RadiantWin: false, GameMode: 22,
	}

	rec, err := Normalize(raw, fakeHeroes{74: "Invoker"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.MatchID != 42 || rec.Hero != "Invoker" || rec.Side != model.SideDire || !rec.Win {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.KDA.String() != "10/2/15" {
		t.Errorf("KDA: want 10/2/15, got %s", rec.KDA)
	}
	if got := rec.Date.Format("2006-01-02"); got != "2023-03-09" {
		t.Errorf("Date: want 2023-03-09, got %s", got)
	}
}

func TestNormalize_HeroFallsBackToRawID(t *testing.T) {
	raw := played(1, model.SideRadiant, true, 999)

	rec, err := Normalize(raw, fakeHeroes{74: "Invoker"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Hero != "999" {
		t.Errorf("unknown hero: want raw id 999, got %q", rec.Hero)
	}

	rec, err = Normalize(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Hero != "999" {
		t.Errorf("nil lookup: want raw id 999, got %q", rec.Hero)
	}
}

func TestNormalizedMatches_AllPickFilterAndOrder(t *testing.T) {
	turbo := played(2, model.SideRadiant, true, 1)
	turbo.GameMode = 23
	c := competitor(1, "a",
		played(3, model.SideRadiant, true, 1),
		turbo,
		played(1, model.SideDire, false, 2),
	)

	filtered, err := NormalizedMatches(c, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(matchIDs(filtered), []int64{3, 1}) {
		t.Errorf("All Pick filter: want [3 1] in fetch order, got %v", matchIDs(filtered))
	}

	all, err := NormalizedMatches(c, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(matchIDs(all), []int64{3, 2, 1}) {
		t.Errorf("no filter: want [3 2 1], got %v", matchIDs(all))
	}
}

func TestWinrateCounts(t *testing.T) {
	turbo := played(4, model.SideDire, true, 1)
	turbo.GameMode = 23
	c := competitor(1, "a",
		played(1, model.SideRadiant, true, 1),
		played(2, model.SideDire, true, 1),
		played(3, model.SideDire, false, 1),
		turbo,
	)

	wins, losses, err := WinrateCounts(c, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if wins != 3 || losses != 1 {
		t.Errorf("all modes: want 3/1, got %d/%d", wins, losses)
	}

	wins, losses, _ = WinrateCounts(c, DefaultOptions())
	if wins != 2 || losses != 1 {
		t.Errorf("All Pick: want 2/1, got %d/%d", wins, losses)
	}
}

func TestWinrateCounts_EmptyHistory(t *testing.T) {
	wins, losses, err := WinrateCounts(competitor(1, "empty"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if wins != 0 || losses != 0 {
		t.Errorf("want (0, 0), got (%d, %d)", wins, losses)
	}
	wr, _ := Winrate(competitor(1, "empty"), Options{})
	if wr != 0 {
		t.Errorf("empty winrate: want 0, got %f", wr)
	}
}

func TestNormalizedMatches_InvalidSlot(t *testing.T) {
	bad := played(1, model.SideRadiant, true, 1)
	bad.PlayerSlot = 300
	_, err := NormalizedMatches(competitor(1, "a", bad), nil, Options{})
	if !errors.Is(err, ErrInvalidPlayerSlot) {
		t.Errorf("expected ErrInvalidPlayerSlot, got %v", err)
	}
}

func TestHeroUsage_SortedStable(t *testing.T) {
	recs := []model.MatchRecord{
		{Hero: "Axe", Win: true},
		{Hero: "Lion", Win: false},
		{Hero: "Lion", Win: true},
		{Hero: "Zeus", Win: true},
		{Hero: "Axe", Win: false},
		{Hero: "Pudge", Win: false},
	}
	got := HeroUsage(recs)
	want := []model.HeroUsageEntry{
		{Hero: "Axe", Played: 2, Won: 1},
		{Hero: "Lion", Played: 2, Won: 1},
		{Hero: "Zeus", Played: 1, Won: 1},
		{Hero: "Pudge", Played: 1, Won: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("want %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}
