// Package heroes maps Dota 2 hero ids to display names and back.
package heroes

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Lookup is an immutable hero id -> display name table. Keys are the decimal
// string form of the hero id, matching the heroes_dict.json layout.
// A nil *Lookup is valid and resolves nothing.
type Lookup struct {
	names  map[string]string
	byNorm map[string]string // normalized name -> id
}

// New builds a Lookup from an id -> name map. The map is copied.
func New(names map[string]string) *Lookup {
	l := &Lookup{
		names:  make(map[string]string, len(names)),
		byNorm: make(map[string]string, len(names)),
	}
	for id, name := range names {
		l.names[id] = name
		l.byNorm[NormalizeName(name)] = id
	}
	return l
}

// NormalizeName lower-cases s and collapses every run of spaces, hyphens and
// underscores into a single "_", trimming separators at both ends.
// "Anti-Mage", "anti mage" and "ANTI__MAGE" all normalize to "anti_mage".
func NormalizeName(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '_', '\t':
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HeroName returns the display name for a hero id.
func (l *Lookup) HeroName(id int) (string, bool) {
	if l == nil {
		return "", false
	}
	name, ok := l.names[strconv.Itoa(id)]
	return name, ok
}

// Resolve returns the display name for id, or its decimal form when unknown.
func (l *Lookup) Resolve(id int) string {
	if name, ok := l.HeroName(id); ok {
		return name
	}
	return strconv.Itoa(id)
}

// IDForName resolves a display name (compared in normalized form) to its id.
func (l *Lookup) IDForName(name string) (string, bool) {
	if l == nil {
		return "", false
	}
	id, ok := l.byNorm[NormalizeName(name)]
	return id, ok
}

// ResolveID accepts either a hero id or a display name and returns the id.
// Input that is neither a known name nor numeric is returned unchanged.
func (l *Lookup) ResolveID(heroOrName string) string {
	s := strings.TrimSpace(heroOrName)
	if _, err := strconv.Atoi(s); err == nil {
		return s
	}
	if id, ok := l.IDForName(s); ok {
		return id
	}
	return s
}

// Len returns the number of known heroes.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// Names returns a copy of the id -> name table.
func (l *Lookup) Names() map[string]string {
	out := make(map[string]string, l.Len())
	if l == nil {
		return out
	}
	for id, name := range l.names {
		out[id] = name
	}
	return out
}

// Entry is one row of the table, used for listings.
type Entry struct {
	ID   int
	Name string
}

// Entries returns the table sorted by numeric id.
func (l *Lookup) Entries() []Entry {
	var out []Entry
	if l == nil {
		return out
	}
	for id, name := range l.names {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		out = append(out, Entry{ID: n, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// apiHero mirrors the fields we read from the OpenDota /heroes payload.
type apiHero struct {
	ID            int    `json:"id"`
	LocalizedName string `json:"localized_name"`
}

// Parse decodes either a heroes_dict.json object ({"1": "Anti-Mage", ...})
// or the raw OpenDota /heroes array.
func Parse(data []byte) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []apiHero
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode hero list: %w", err)
		}
		out := make(map[string]string, len(list))
		for _, h := range list {
			out[strconv.Itoa(h.ID)] = h.LocalizedName
		}
		return out, nil
	}
	var dict map[string]string
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("decode hero dict: %w", err)
	}
	return dict, nil
}

// LoadFile reads a hero table from a JSON file in either supported layout.
func LoadFile(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heroes file: %w", err)
	}
	names, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(names), nil
}
