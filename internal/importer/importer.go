// Package importer reads and writes the per-player directory layout
// <name>_<account_id>/{player_info.json,player_matches.json}.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pable/go-dota-metrics/internal/model"
)

const (
	InfoFile    = "player_info.json"
	MatchesFile = "player_matches.json"
)

type playerInfo struct {
	Profile struct {
		AccountID   int64  `json:"account_id"`
		PersonaName string `json:"personaname"`
	} `json:"profile"`
}

// ParseDirName splits "<name>_<account_id>". The name may itself contain
// underscores.
func ParseDirName(dir string) (name string, id int64, ok bool) {
	base := filepath.Base(filepath.Clean(dir))
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(base[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return base[:i], id, true
}

// DirName is the inverse of ParseDirName.
func DirName(c *model.Competitor) string {
	return c.Name + "_" + strconv.FormatInt(c.ID, 10)
}

// LoadDir reads one player directory. Identity comes from player_info.json
// and falls back to the directory name; a missing matches file yields an
// empty history. LastUpdated is the matches file's modification time.
func LoadDir(dir string) (*model.Competitor, error) {
	c := &model.Competitor{}
	if name, id, ok := ParseDirName(dir); ok {
		c.Name, c.ID = name, id
	}

	data, err := os.ReadFile(filepath.Join(dir, InfoFile))
	switch {
	case err == nil:
		var info playerInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, fmt.Errorf("decode %s: %w", InfoFile, err)
		}
		if info.Profile.AccountID != 0 {
			c.ID = info.Profile.AccountID
		}
		if info.Profile.PersonaName != "" && c.Name == "" {
			c.Name = info.Profile.PersonaName
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", InfoFile, err)
	}
	if c.ID == 0 {
		return nil, fmt.Errorf("%s: no account id in %s or directory name", dir, InfoFile)
	}

	path := filepath.Join(dir, MatchesFile)
	data, err = os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MatchesFile, err)
	}
	if err := json.Unmarshal(data, &c.Matches); err != nil {
		return nil, fmt.Errorf("decode %s: %w", MatchesFile, err)
	}
	if st, err := os.Stat(path); err == nil {
		c.LastUpdated = st.ModTime().UTC().Truncate(time.Second)
	}
	return c, nil
}

// ScanRoot loads every player directory directly under root. Entries that are
// not directories are skipped.
func ScanRoot(root string) ([]*model.Competitor, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}
	var out []*model.Competitor
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		c, err := LoadDir(filepath.Join(root, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteDir writes c under root in the same layout LoadDir reads, replacing
// existing files. It returns the player directory.
func WriteDir(root string, c *model.Competitor) (string, error) {
	dir := filepath.Join(root, DirName(c))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	var info playerInfo
	info.Profile.AccountID = c.ID
	info.Profile.PersonaName = c.Name
	if err := writeJSON(filepath.Join(dir, InfoFile), info); err != nil {
		return "", err
	}
	matches := c.Matches
	if matches == nil {
		matches = []model.RawMatch{}
	}
	if err := writeJSON(filepath.Join(dir, MatchesFile), matches); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
