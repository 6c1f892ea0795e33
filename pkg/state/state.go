// Package state persists the last observation per watch key as a
// JSON snapshot on disk. The file is the entire durable state of the
// watcher; writes are atomic so a crash can never leave a torn file
// behind for the next cycle to read.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry is the last known observation for one watch key. Unknown
// JSON fields are ignored on load and a missing in_stock defaults to
// false, so older files keep loading as the format grows.
type Entry struct {
	InStock         bool   `json:"in_stock"`
	LastCheckUTC    string `json:"last_check_utc"`
	LastReason      string `json:"last_reason"`
	LastResolvedURL string `json:"last_resolved_url"`
}

// Store maps watch keys to their last observation.
type Store map[string]Entry

// Lookup returns the entry for key, or nil if the key was never seen.
func (s Store) Lookup(key string) *Entry {
	if e, ok := s[key]; ok {
		return &e
	}
	return nil
}

// Load reads the snapshot at path. A missing, unreadable, or corrupt
// file yields an empty store: prior history is best-effort and must
// never block a poll.
func Load(path string) Store {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Store{}
	}
	var s Store
	if err := json.Unmarshal(raw, &s); err != nil {
		return Store{}
	}
	if s == nil {
		return Store{}
	}
	return s
}

// Save writes the full snapshot to a temporary file in the same
// directory and renames it into place, so a reader only ever
// observes a complete file.
func Save(path string, s Store) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
