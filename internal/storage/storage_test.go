package storage

import (
	"testing"
	"time"

	"github.com/pable/go-dota-metrics/internal/heroes"
	"github.com/pable/go-dota-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleCompetitor(id int64, name string, matchIDs ...int64) *model.Competitor {
	c := &model.Competitor{
		ID:          id,
		Name:        name,
		LastUpdated: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
	}
	for i, mid := range matchIDs {
		c.Matches = append(c.Matches, model.RawMatch{
			MatchID: mid, StartTime: 1700000000 - int64(i)*3600,
			Kills: 7, Deaths: 2, Assists: 11,
			HeroID: 74, PlayerSlot: 130, RadiantWin: i%2 == 0, GameMode: 22,
		})
	}
	return c
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openMemDB(t)

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("expected schema version 1, got %d", v)
	}
}

func TestSaveAndLoadCompetitor(t *testing.T) {
	db := openMemDB(t)

	in := sampleCompetitor(1001, "Alice", 30, 10, 20)
	if err := db.SaveCompetitor(in); err != nil {
		t.Fatalf("SaveCompetitor: %v", err)
	}

	got, err := db.LoadCompetitor(1001)
	if err != nil {
		t.Fatalf("LoadCompetitor: %v", err)
	}
	if got == nil {
		t.Fatal("expected competitor after save")
	}
	if got.Name != "Alice" || !got.LastUpdated.Equal(in.LastUpdated) {
		t.Errorf("unexpected competitor: %+v", got)
	}
	if len(got.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got.Matches))
	}
	// Fetch order survives the round trip.
	for i, want := range []int64{30, 10, 20} {
		if got.Matches[i] != in.Matches[i] {
			t.Errorf("match %d: want %+v, got %+v", want, in.Matches[i], got.Matches[i])
		}
	}

	missing, err := db.LoadCompetitor(42)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown id, got %v, %v", missing, err)
	}
}

func TestSaveCompetitorKeepsDuplicateMatchIDs(t *testing.T) {
	db := openMemDB(t)

	in := sampleCompetitor(7, "dup", 50, 51, 50)
	if err := db.SaveCompetitor(in); err != nil {
		t.Fatalf("SaveCompetitor: %v", err)
	}
	got, err := db.LoadCompetitor(7)
	if err != nil {
		t.Fatalf("LoadCompetitor: %v", err)
	}
	if len(got.Matches) != 3 {
		t.Fatalf("expected 3 stored matches, got %d", len(got.Matches))
	}
	for i := range in.Matches {
		if got.Matches[i] != in.Matches[i] {
			t.Errorf("match %d: want %+v, got %+v", i, in.Matches[i], got.Matches[i])
		}
	}
}

func TestSaveCompetitorReplacesHistory(t *testing.T) {
	db := openMemDB(t)

	if err := db.SaveCompetitor(sampleCompetitor(1, "a", 1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveCompetitor(sampleCompetitor(1, "a", 4)); err != nil {
		t.Fatal(err)
	}
	s, err := db.GetCompetitor(1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Matches != 1 {
		t.Errorf("expected history to be replaced, got %d matches", s.Matches)
	}
}

func TestUpsertCompetitorKeepsNameWhenEmpty(t *testing.T) {
	db := openMemDB(t)

	now := time.Now()
	if err := db.UpsertCompetitor(7, "Bob", now); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertCompetitor(7, "", now); err != nil {
		t.Fatal(err)
	}
	s, _ := db.GetCompetitor(7)
	if s == nil || s.Name != "Bob" {
		t.Errorf("empty name should not overwrite, got %+v", s)
	}
}

func TestReplaceMatchesRequiresCompetitor(t *testing.T) {
	db := openMemDB(t)

	err := db.ReplaceMatches(99, sampleCompetitor(99, "x", 1).Matches)
	if err == nil {
		t.Error("expected foreign key error for unknown competitor")
	}
}

func TestFindCompetitor(t *testing.T) {
	db := openMemDB(t)
	db.SaveCompetitor(sampleCompetitor(1001, "Alice", 1))
	db.SaveCompetitor(sampleCompetitor(2002, "bob", 2))

	cases := []struct {
		ref    string
		wantID int64
	}{
		{"1001", 1001},
		{"alice", 1001},
		{" BOB ", 2002},
	}
	for _, c := range cases {
		s, err := db.FindCompetitor(c.ref)
		if err != nil {
			t.Fatalf("FindCompetitor(%q): %v", c.ref, err)
		}
		if s == nil || s.ID != c.wantID {
			t.Errorf("FindCompetitor(%q): want id %d, got %+v", c.ref, c.wantID, s)
		}
	}

	s, err := db.FindCompetitor("carol")
	if err != nil || s != nil {
		t.Errorf("expected nil, nil for unknown name, got %v, %v", s, err)
	}
}

func TestListAndLoadCompetitors(t *testing.T) {
	db := openMemDB(t)
	db.SaveCompetitor(sampleCompetitor(3, "zed", 1, 2))
	db.SaveCompetitor(sampleCompetitor(1, "Anna", 1))
	db.SaveCompetitor(sampleCompetitor(2, "mike"))

	list, err := db.ListCompetitors()
	if err != nil {
		t.Fatalf("ListCompetitors: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 competitors, got %d", len(list))
	}
	if list[0].Name != "Anna" || list[1].Name != "mike" || list[2].Name != "zed" {
		t.Errorf("expected name order Anna, mike, zed; got %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
	}
	if list[2].Matches != 2 || list[1].Matches != 0 {
		t.Errorf("unexpected match counts: %+v", list)
	}

	all, err := db.LoadCompetitors()
	if err != nil {
		t.Fatalf("LoadCompetitors: %v", err)
	}
	if len(all) != 3 || len(all[2].Matches) != 2 {
		t.Errorf("LoadCompetitors returned %d competitors", len(all))
	}
}

func TestDeleteCompetitorCascades(t *testing.T) {
	db := openMemDB(t)
	db.SaveCompetitor(sampleCompetitor(1, "a", 1, 2))

	ok, err := db.DeleteCompetitor(1)
	if err != nil || !ok {
		t.Fatalf("DeleteCompetitor: ok=%v err=%v", ok, err)
	}
	_, rows, err := db.QueryRaw("SELECT COUNT(1) FROM raw_matches")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][0] != "0" {
		t.Errorf("expected matches to be deleted with competitor, got %s", rows[0][0])
	}

	ok, _ = db.DeleteCompetitor(1)
	if ok {
		t.Error("second delete should report nothing deleted")
	}
}

func TestHeroes(t *testing.T) {
	db := openMemDB(t)

	empty, err := db.HeroLookup()
	if err != nil {
		t.Fatalf("HeroLookup: %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("expected empty lookup, got %d", empty.Len())
	}

	entries := []heroes.Entry{{ID: 1, Name: "Anti-Mage"}, {ID: 74, Name: "Invoker"}}
	if err := db.UpsertHeroes(entries); err != nil {
		t.Fatalf("UpsertHeroes: %v", err)
	}
	if err := db.UpsertHeroes([]heroes.Entry{{ID: 74, Name: "Invoker (Kid)"}}); err != nil {
		t.Fatalf("UpsertHeroes replace: %v", err)
	}

	lookup, err := db.HeroLookup()
	if err != nil {
		t.Fatal(err)
	}
	if lookup.Len() != 2 {
		t.Errorf("expected 2 heroes, got %d", lookup.Len())
	}
	if name := lookup.Resolve(74); name != "Invoker (Kid)" {
		t.Errorf("expected replaced name, got %q", name)
	}
	if id, ok := lookup.IDForName("anti mage"); !ok || id != "1" {
		t.Errorf("IDForName(anti mage) = %q, %v", id, ok)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if err := db.SaveCompetitor(sampleCompetitor(5, "e", 100)); err != nil {
		t.Fatal(err)
	}

	cols, rows, err := db.QueryRaw("SELECT account_id, name, NULL AS empty FROM competitors")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[2] != "empty" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "5" || rows[0][1] != "e" || rows[0][2] != "NULL" {
		t.Errorf("unexpected rows %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}
