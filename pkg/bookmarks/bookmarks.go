// Package bookmarks maintains the device-local list of saved references to
// remote entities (challenges, posts, learn content) and reconciles it
// against live remote state.
package bookmarks

import (
	"sync"
	"time"

	"github.com/touchgrass/cli/pkg/logger"
)

// EntityType identifies what kind of remote entity a bookmark points at
type EntityType string

const (
	TypeChallenge EntityType = "challenge"
	TypePost      EntityType = "post"
	TypeArticle   EntityType = "article"
	TypeVideo     EntityType = "video"
)

// Record is a single bookmark. Title is a denormalized copy of the remote
// entity's display name and can drift; SavedAt is set at creation and never
// changes.
type Record struct {
	ID      string     `json:"id"`
	Type    EntityType `json:"type"`
	Title   string     `json:"title"`
	SavedAt time.Time  `json:"saved_at"`
}

// Store is the authoritative local bookmark collection. It is explicitly
// constructed and passed to consumers; there is no package-level instance.
type Store struct {
	mu        sync.Mutex
	records   []Record
	ids       map[string]int // id -> index into records
	persister Persister
}

// NewStore creates a store backed by the given persister. A nil persister
// keeps the store memory-only. Load failures leave the store empty; the
// session continues without the persisted history.
func NewStore(persister Persister) *Store {
	s := &Store{
		ids:       make(map[string]int),
		persister: persister,
	}

	if persister != nil {
		records, err := persister.Load()
		if err != nil {
			logger.Warn("Failed to load bookmarks, starting empty", "error", err)
			return s
		}
		for _, rec := range records {
			if _, dup := s.ids[rec.ID]; dup {
				continue
			}
			s.ids[rec.ID] = len(s.records)
			s.records = append(s.records, rec)
		}
	}

	return s
}

// Add inserts a bookmark unless one with the same id already exists.
// Duplicate adds are silent no-ops.
func (s *Store) Add(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[rec.ID]; exists {
		return
	}

	s.ids[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	s.persistLocked()
}

// Remove deletes the bookmark with the given id. Removing an absent id is a
// no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeLocked(id) {
		s.persistLocked()
	}
}

// RemoveBatch deletes every listed id in one pass with a single persistence
// write. Used by the validator so a half-cleaned list is never persisted.
func (s *Store) RemoveBatch(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if s.removeLocked(id) {
			removed++
		}
	}
	if removed > 0 {
		s.persistLocked()
	}
	return removed
}

// Clear removes every bookmark
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.ids = make(map[string]int)
	s.persistLocked()
}

// UpdateTitles rewrites the titles of the listed bookmarks in one pass with
// a single persistence write. Unknown ids are skipped.
func (s *Store) UpdateTitles(titles map[string]string) {
	if len(titles) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for id, title := range titles {
		idx, ok := s.ids[id]
		if !ok || s.records[idx].Title == title {
			continue
		}
		s.records[idx].Title = title
		changed = true
	}
	if changed {
		s.persistLocked()
	}
}

// IsBookmarked reports whether a bookmark with the given id exists
func (s *Store) IsBookmarked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.ids[id]
	return ok
}

// Len returns the number of bookmarks
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// List returns the bookmarks in insertion order. Display ordering
// (newest-saved first) is the caller's concern.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) removeLocked(id string) bool {
	idx, ok := s.ids[id]
	if !ok {
		return false
	}

	s.records = append(s.records[:idx], s.records[idx+1:]...)
	delete(s.ids, id)
	for i := idx; i < len(s.records); i++ {
		s.ids[s.records[i].ID] = i
	}
	return true
}

// persistLocked writes the current collection. Persistence failures are
// logged and swallowed; the in-memory state stays authoritative for the
// session and no retry is attempted.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.records); err != nil {
		logger.Warn("Failed to persist bookmarks", "error", err, "count", len(s.records))
	}
}
