/**
 * @description
 * JSON file persistence backend. The whole record set lives in a single
 * subscriptions.json under the data directory, read and rewritten as a unit.
 * Writes go through a temp file and an atomic rename so a crash mid-write
 * never leaves a truncated data file behind.
 */
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
)

const subscriptionsFile = "subscriptions.json"

// FileStore persists subscriptions in a JSON file under dataDir.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates the data directory if needed and returns a store
// backed by <dataDir>/subscriptions.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dataDir, subscriptionsFile)}, nil
}

// ListAll returns every stored subscription. A missing data file is an empty
// store, not an error.
func (s *FileStore) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// SaveAll upserts the given subscriptions into the record set, keyed by id,
// and rewrites the data file once.
func (s *FileStore) SaveAll(ctx context.Context, subs []domain.Subscription) error {
	if len(subs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(all))
	for i, sub := range all {
		index[sub.ID] = i
	}
	for _, sub := range subs {
		if i, ok := index[sub.ID]; ok {
			all[i] = sub
		} else {
			index[sub.ID] = len(all)
			all = append(all, sub)
		}
	}

	return s.write(all)
}

// Delete removes a subscription by id, returning ErrNotFound when absent.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}

	kept := all[:0]
	for _, sub := range all {
		if sub.ID != id {
			kept = append(kept, sub)
		}
	}
	if len(kept) == len(all) {
		return ErrNotFound
	}
	return s.write(kept)
}

func (s *FileStore) read() ([]domain.Subscription, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Subscription{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var subs []domain.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return subs, nil
}

func (s *FileStore) write(subs []domain.Subscription) error {
	data, err := json.MarshalIndent(subs, "", "    ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
