// Package prefs remembers UI choices between runs: the colour theme and the
// order used on list screens. The file is TOML; its location comes from the
// prefs_file config key, already expanded by the config package.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for Vapor.
type Prefs struct {
	Theme string `toml:"theme"`
	// ListSortBy and ListSortOrder remember the last order used on a list screen.
	ListSortBy    string `toml:"list_sort_by"`
	ListSortOrder string `toml:"list_sort_order"`
}

const (
	defaultTheme     = "Vapor"
	defaultSortBy    = "created_at"
	defaultSortOrder = "desc"
)

var sortFields = map[string]bool{"id": true, "game_id": true, "created_at": true, "appId": true, "name": true}

// Defaults returns the preferences of a first run.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, ListSortBy: defaultSortBy, ListSortOrder: defaultSortOrder}
}

// normalize replaces blank or unknown values with the defaults so a hand
// edited file can never produce a request the API rejects.
func (p *Prefs) normalize() {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	if !sortFields[p.ListSortBy] {
		p.ListSortBy = defaultSortBy
	}
	if p.ListSortOrder != "asc" && p.ListSortOrder != "desc" {
		p.ListSortOrder = defaultSortOrder
	}
}

// Load reads the preferences at path over the defaults. A missing file or an
// empty path is not an error. An unreadable or malformed file yields the
// defaults together with the error, so callers can log it and carry on.
func Load(path string) (Prefs, error) {
	p := Defaults()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}

	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", path, err)
	}
	p.normalize()
	return p, nil
}

// Save writes p to path through a temporary file and a rename, so a crash
// mid-write leaves the previous file intact.
func Save(path string, p Prefs) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("prefs path is empty")
	}
	p.normalize()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}
