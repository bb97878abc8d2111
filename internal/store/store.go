// Package store persists search history and report drafts as JSON files.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
)

const (
	MaxHistoryEntries = 20
	MaxDrafts         = 10

	historyFile = "search_history.json"
	draftsFile  = "drafts.json"
)

type Store struct {
	mu          sync.Mutex
	historyPath string
	draftsPath  string
	now         func() time.Time
	newID       func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New returns a store writing under dir, creating it when missing.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, domainErrors.ErrStoreWrite.WithContext("path", dir).WithError(err)
	}

	s := &Store{
		historyPath: filepath.Join(dir, historyFile),
		draftsPath:  filepath.Join(dir, draftsFile),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddSearch stamps entry and prepends it, keeping the newest
// MaxHistoryEntries.
func (s *Store) AddSearch(entry models.SearchHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := load[models.SearchHistoryEntry](s.historyPath)
	if err != nil {
		slog.Warn("discarding unreadable search history", "error", err)
		entries = nil
	}

	entry.Timestamp = s.now()
	entries = append([]models.SearchHistoryEntry{entry}, entries...)
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}

	if err := save(s.historyPath, entries); err != nil {
		return err
	}

	slog.Debug("search saved to history",
		"repository", entry.Repository,
		"total_entries", len(entries))
	return nil
}

// History returns saved searches, newest first.
func (s *Store) History() ([]models.SearchHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[models.SearchHistoryEntry](s.historyPath)
}

func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(s.historyPath, []models.SearchHistoryEntry{})
}

// SaveDraft inserts or replaces a draft by ID. New drafts get an ID and go
// first; only the newest MaxDrafts are kept.
func (s *Store) SaveDraft(draft models.Draft) (models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := load[models.Draft](s.draftsPath)
	if err != nil {
		return models.Draft{}, err
	}

	draft.UpdatedAt = s.now()
	replaced := false
	if draft.ID != "" {
		for i := range drafts {
			if drafts[i].ID == draft.ID {
				drafts[i] = draft
				replaced = true
				break
			}
		}
	} else {
		draft.ID = s.newID()
	}

	if !replaced {
		drafts = append([]models.Draft{draft}, drafts...)
	}
	if len(drafts) > MaxDrafts {
		drafts = drafts[:MaxDrafts]
	}

	if err := save(s.draftsPath, drafts); err != nil {
		return models.Draft{}, err
	}

	slog.Debug("draft saved",
		"id", draft.ID,
		"updated", replaced,
		"total_drafts", len(drafts))
	return draft, nil
}

func (s *Store) ListDrafts() ([]models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[models.Draft](s.draftsPath)
}

func (s *Store) GetDraft(id string) (models.Draft, error) {
	drafts, err := s.ListDrafts()
	if err != nil {
		return models.Draft{}, err
	}
	for _, d := range drafts {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Draft{}, domainErrors.ErrDraftNotFound.WithContext("id", id)
}

func (s *Store) DeleteDraft(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := load[models.Draft](s.draftsPath)
	if err != nil {
		return err
	}

	kept := make([]models.Draft, 0, len(drafts))
	for _, d := range drafts {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(drafts) {
		return domainErrors.ErrDraftNotFound.WithContext("id", id)
	}

	return save(s.draftsPath, kept)
}

func load[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, domainErrors.ErrStoreRead.WithContext("path", path).WithError(err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, domainErrors.ErrStoreRead.WithContext("path", path).WithError(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](path string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return domainErrors.ErrStoreWrite.WithContext("path", path).WithError(err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		slog.Error("failed to write local state",
			"path", path,
			"error", err)
		return domainErrors.ErrStoreWrite.WithContext("path", path).WithError(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return domainErrors.ErrStoreWrite.WithContext("path", path).WithError(err)
	}
	return nil
}
