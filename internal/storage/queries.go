package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-dota-metrics/internal/heroes"
	"github.com/pable/go-dota-metrics/internal/model"
)

const timeLayout = time.RFC3339

// SaveCompetitor upserts the competitor row and replaces its stored match
// history with c.Matches, in a single transaction.
func (db *DB) SaveCompetitor(c *model.Competitor) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertCompetitor(tx, c.ID, c.Name, c.LastUpdated); err != nil {
		return err
	}
	if err := replaceMatches(tx, c.ID, c.Matches); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertCompetitor inserts or renames a competitor without touching its matches.
func (db *DB) UpsertCompetitor(id int64, name string, updated time.Time) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := upsertCompetitor(tx, id, name, updated); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceMatches swaps the stored history of a known competitor for matches.
// The fetch order of matches is preserved.
func (db *DB) ReplaceMatches(id int64, matches []model.RawMatch) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := replaceMatches(tx, id, matches); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertCompetitor(tx *sql.Tx, id int64, name string, updated time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO competitors(account_id, name, last_updated) VALUES (?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE competitors.name END,
			last_updated = excluded.last_updated`,
		id, name, formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("upsert competitor %d: %w", id, err)
	}
	return nil
}

func replaceMatches(tx *sql.Tx, id int64, matches []model.RawMatch) error {
	if _, err := tx.Exec("DELETE FROM raw_matches WHERE account_id = ?", id); err != nil {
		return fmt.Errorf("clear matches for %d: %w", id, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO raw_matches(
			account_id, match_id, seq, start_time, kills, deaths, assists,
			hero_id, player_slot, radiant_win, game_mode
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range matches {
		_, err = stmt.Exec(
			id, m.MatchID, i, m.StartTime, m.Kills, m.Deaths, m.Assists,
			m.HeroID, m.PlayerSlot, boolInt(m.RadiantWin), m.GameMode,
		)
		if err != nil {
			return fmt.Errorf("insert match %d for %d: %w", m.MatchID, id, err)
		}
	}
	return nil
}

const summaryQuery = `
	SELECT c.account_id, c.name, c.last_updated,
	       (SELECT COUNT(1) FROM raw_matches r WHERE r.account_id = c.account_id)
	FROM competitors c`

// GetCompetitor returns the summary for an account id, or nil if not stored.
func (db *DB) GetCompetitor(id int64) (*model.CompetitorSummary, error) {
	s, err := scanSummary(db.conn.QueryRow(summaryQuery+" WHERE c.account_id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindCompetitor resolves ref as an account id first and then as a
// case-insensitive name. Returns nil when nothing matches.
func (db *DB) FindCompetitor(ref string) (*model.CompetitorSummary, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		s, err := db.GetCompetitor(id)
		if s != nil || err != nil {
			return s, err
		}
	}
	s, err := scanSummary(db.conn.QueryRow(
		summaryQuery+" WHERE c.name = ? COLLATE NOCASE ORDER BY c.account_id LIMIT 1", ref))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListCompetitors returns every stored competitor ordered by name.
func (db *DB) ListCompetitors() ([]model.CompetitorSummary, error) {
	rows, err := db.conn.Query(summaryQuery + " ORDER BY c.name COLLATE NOCASE, c.account_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CompetitorSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (model.CompetitorSummary, error) {
	var s model.CompetitorSummary
	var updated string
	if err := row.Scan(&s.ID, &s.Name, &updated, &s.Matches); err != nil {
		return s, err
	}
	s.LastUpdated = parseTime(updated)
	return s, nil
}

// LoadCompetitor returns a competitor with its full match history in fetch
// order, or nil if the account is not stored.
func (db *DB) LoadCompetitor(id int64) (*model.Competitor, error) {
	s, err := db.GetCompetitor(id)
	if err != nil || s == nil {
		return nil, err
	}
	matches, err := db.loadMatches(id)
	if err != nil {
		return nil, err
	}
	return &model.Competitor{ID: s.ID, Name: s.Name, LastUpdated: s.LastUpdated, Matches: matches}, nil
}

// LoadCompetitors returns every stored competitor with its match history.
func (db *DB) LoadCompetitors() ([]*model.Competitor, error) {
	list, err := db.ListCompetitors()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Competitor, 0, len(list))
	for _, s := range list {
		matches, err := db.loadMatches(s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &model.Competitor{ID: s.ID, Name: s.Name, LastUpdated: s.LastUpdated, Matches: matches})
	}
	return out, nil
}

func (db *DB) loadMatches(id int64) ([]model.RawMatch, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, start_time, kills, deaths, assists,
		       hero_id, player_slot, radiant_win, game_mode
		FROM raw_matches WHERE account_id = ?
		ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RawMatch
	for rows.Next() {
		var m model.RawMatch
		var radiantWinInt int
		if err := rows.Scan(&m.MatchID, &m.StartTime, &m.Kills, &m.Deaths, &m.Assists,
			&m.HeroID, &m.PlayerSlot, &radiantWinInt, &m.GameMode); err != nil {
			return nil, err
		}
		m.RadiantWin = radiantWinInt != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteCompetitor removes a competitor and its matches. It reports whether a
// row was deleted.
func (db *DB) DeleteCompetitor(id int64) (bool, error) {
	res, err := db.conn.Exec("DELETE FROM competitors WHERE account_id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete competitor %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpsertHeroes stores hero id -> name entries, replacing existing names.
func (db *DB) UpsertHeroes(entries []heroes.Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO heroes(id, name) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.ID, e.Name); err != nil {
			return fmt.Errorf("insert hero %d: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// HeroLookup builds a lookup table from the stored heroes. An empty table
// yields an empty (not nil) lookup.
func (db *DB) HeroLookup() (*heroes.Lookup, error) {
	rows, err := db.conn.Query("SELECT id, name FROM heroes")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[strconv.Itoa(id)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return heroes.New(names), nil
}

// QueryRaw runs an arbitrary query and returns column names and every row
// rendered as strings. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(timeLayout)
	default:
		return fmt.Sprint(x)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
