// Package cache stores raw Riot API payloads on disk so the detection
// pipeline can run offline and re-runs never re-fetch.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is a file-based cache holding one JSON file per match under
// matches/ and timelines/.
type Store struct {
	root string
}

// Open creates (if needed) and returns the cache rooted at dir.
func Open(dir string) (*Store, error) {
	for _, sub := range []string{"matches", "timelines"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return &Store{root: dir}, nil
}

func (s *Store) matchPath(matchID string) string {
	return filepath.Join(s.root, "matches", matchID+".json")
}

func (s *Store) timelinePath(matchID string) string {
	return filepath.Join(s.root, "timelines", matchID+".json")
}

// HasMatch reports whether both the match detail and its timeline are cached.
func (s *Store) HasMatch(matchID string) bool {
	if _, err := os.Stat(s.matchPath(matchID)); err != nil {
		return false
	}
	_, err := os.Stat(s.timelinePath(matchID))
	return err == nil
}

// PutMatch writes the raw match-detail payload.
func (s *Store) PutMatch(matchID string, payload []byte) error {
	return os.WriteFile(s.matchPath(matchID), payload, 0644)
}

// PutTimeline writes the raw timeline payload.
func (s *Store) PutTimeline(matchID string, payload []byte) error {
	return os.WriteFile(s.timelinePath(matchID), payload, 0644)
}

// GetMatch reads the cached match-detail payload.
func (s *Store) GetMatch(matchID string) ([]byte, error) {
	b, err := os.ReadFile(s.matchPath(matchID))
	if err != nil {
		return nil, fmt.Errorf("cached match %s: %w", matchID, err)
	}
	return b, nil
}

// GetTimeline reads the cached timeline payload.
func (s *Store) GetTimeline(matchID string) ([]byte, error) {
	b, err := os.ReadFile(s.timelinePath(matchID))
	if err != nil {
		return nil, fmt.Errorf("cached timeline %s: %w", matchID, err)
	}
	return b, nil
}

// ListMatches returns the IDs of all matches with a cached timeline, sorted
// for deterministic pipeline input order.
func (s *Store) ListMatches() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "timelines"))
	if err != nil {
		return nil, fmt.Errorf("list cache: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
