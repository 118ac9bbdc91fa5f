package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"AlphaWatcher/internal/domain"
	"AlphaWatcher/internal/ports"
)

// FileStore keeps the seen set as a JSON array of ids in a single
// file, sorted on write for stable diffs.
type FileStore struct {
	path string
}

var _ ports.SeenStore = (*FileStore)(nil)

// NewFileStore records the backing file path; the file is created on
// first persist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted set. A missing file is an empty set; an
// unreadable or unparsable file degrades to an empty set with an
// ErrStateCorrupt-wrapped error so the caller can log it, accepting
// possible re-notification over failing the cycle.
func (s *FileStore) Load(_ context.Context) (map[string]struct{}, error) {
	seen := map[string]struct{}{}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return seen, nil
	}
	if err != nil {
		return seen, fmt.Errorf("read %s: %v: %w", s.path, err, domain.ErrStateCorrupt)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return seen, fmt.Errorf("parse %s: %v: %w", s.path, err, domain.ErrStateCorrupt)
	}

	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen, nil
}

// Persist rewrites the file with the sorted snapshot.
func (s *FileStore) Persist(_ context.Context, seen map[string]struct{}) error {
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode seen set: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
