package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/heroes"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/opendota"
	"github.com/pable/go-dota-metrics/internal/storage"
)

// openStore opens the database, creating its directory on first use.
func openStore() (*storage.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func analysisOptions() aggregator.Options {
	return aggregator.Options{AllPickOnly: !allModes}
}

func newClient() *opendota.Client {
	return opendota.NewClient(opendota.Options{
		BaseURL:           cfg.OpenDota.BaseURL,
		APIKey:            cfg.OpenDota.APIKey,
		RequestsPerMinute: cfg.OpenDota.RequestsPerMinute,
		Timeout:           cfg.RequestTimeout(),
	})
}

// loadHeroes returns the stored hero table. An empty table is not an error:
// heroes then display as their numeric id.
func loadHeroes(db *storage.DB) (*heroes.Lookup, error) {
	lookup, err := db.HeroLookup()
	if err != nil {
		return nil, fmt.Errorf("load heroes: %w", err)
	}
	if lookup.Len() == 0 {
		fmt.Fprintln(os.Stderr, "note: hero table is empty, run 'dotametrics heroes fetch' to show names")
	}
	return lookup, nil
}

// loadCompetitor resolves an account id or stored name to a competitor with
// its full history.
func loadCompetitor(db *storage.DB, ref string) (*model.Competitor, error) {
	s, err := db.FindCompetitor(ref)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", ref, err)
	}
	if s == nil {
		return nil, fmt.Errorf("no stored competitor matches %q (see 'dotametrics list')", ref)
	}
	c, err := db.LoadCompetitor(s.ID)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", ref, err)
	}
	if c == nil {
		return nil, fmt.Errorf("competitor %d disappeared while loading", s.ID)
	}
	return c, nil
}

func loadCompetitors(db *storage.DB, refs []string) ([]*model.Competitor, error) {
	out := make([]*model.Competitor, 0, len(refs))
	for _, ref := range refs {
		c, err := loadCompetitor(db, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseAccountID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid account id %q", s)
	}
	return id, nil
}
