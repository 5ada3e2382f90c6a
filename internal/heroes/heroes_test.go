package heroes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Anti-Mage":        "anti_mage",
		"anti mage":        "anti_mage",
		"ANTI__MAGE":       "anti_mage",
		"  Queen of Pain ": "queen_of_pain",
		"Nature's Prophet": "nature's_prophet",
		"":                 "",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupResolve(t *testing.T) {
	l := New(map[string]string{"1": "Anti-Mage", "74": "Invoker"})

	if got := l.Resolve(74); got != "Invoker" {
		t.Errorf("Resolve(74) = %q, want Invoker", got)
	}
	if got := l.Resolve(999); got != "999" {
		t.Errorf("Resolve(999) = %q, want raw id", got)
	}

	var nilLookup *Lookup
	if got := nilLookup.Resolve(74); got != "74" {
		t.Errorf("nil lookup Resolve(74) = %q, want 74", got)
	}
}

func TestLookupResolveID(t *testing.T) {
	l := New(map[string]string{"1": "Anti-Mage", "74": "Invoker"})

	cases := map[string]string{
		"anti mage": "1",
		"Anti-Mage": "1",
		"invoker":   "74",
		"74":        "74",
		"Invokr":    "Invokr", // unresolved names are kept literally
	}
	for in, want := range cases {
		if got := l.ResolveID(in); got != want {
			t.Errorf("ResolveID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseBothLayouts(t *testing.T) {
	dict, err := Parse([]byte(`{"1": "Anti-Mage", "2": "Axe"}`))
	if err != nil {
		t.Fatalf("Parse dict: %v", err)
	}
	if dict["2"] != "Axe" {
		t.Errorf("dict layout: got %v", dict)
	}

	list, err := Parse([]byte(`[{"id": 1, "localized_name": "Anti-Mage", "name": "npc_dota_hero_antimage"}]`))
	if err != nil {
		t.Fatalf("Parse list: %v", err)
	}
	if list["1"] != "Anti-Mage" {
		t.Errorf("list layout: got %v", list)
	}

	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestLoadFileAndEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heroes_dict.json")
	if err := os.WriteFile(path, []byte(`{"74": "Invoker", "1": "Anti-Mage"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	entries := l.Entries()
	if len(entries) != 2 || entries[0].ID != 1 || entries[1].Name != "Invoker" {
		t.Errorf("Entries not sorted by id: %+v", entries)
	}
}
