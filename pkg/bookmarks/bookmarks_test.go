package bookmarks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, title string) Record {
	return Record{ID: id, Type: TypePost, Title: title, SavedAt: time.Now().UTC()}
}

func TestStoreAdd(t *testing.T) {
	s := NewStore(nil)

	s.Add(rec("p1", "first"))
	s.Add(rec("p2", "second"))

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.IsBookmarked("p1"))
	assert.False(t, s.IsBookmarked("p3"))
}

func TestStoreAddDuplicateIsNoOp(t *testing.T) {
	s := NewStore(nil)

	s.Add(rec("p1", "original"))
	s.Add(rec("p1", "replacement"))

	require.Equal(t, 1, s.Len())
	assert.Equal(t, "original", s.List()[0].Title)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(nil)
	s.Add(rec("p1", "a"))
	s.Add(rec("p2", "b"))
	s.Add(rec("p3", "c"))

	s.Remove("p2")
	s.Remove("missing")

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.IsBookmarked("p2"))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p3", list[1].ID)
}

func TestStoreRemoveBatch(t *testing.T) {
	s := NewStore(nil)
	s.Add(rec("p1", "a"))
	s.Add(rec("p2", "b"))
	s.Add(rec("p3", "c"))
	s.Add(rec("p4", "d"))

	removed := s.RemoveBatch([]string{"p1", "p3", "nope"})

	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.IsBookmarked("p2"))
	assert.True(t, s.IsBookmarked("p4"))
}

func TestStoreClear(t *testing.T) {
	s := NewStore(nil)
	s.Add(rec("p1", "a"))
	s.Add(rec("p2", "b"))

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsBookmarked("p1"))

	// store stays usable after clearing
	s.Add(rec("p1", "a"))
	assert.Equal(t, 1, s.Len())
}

func TestStoreUpdateTitles(t *testing.T) {
	s := NewStore(nil)
	s.Add(rec("p1", "…"))
	s.Add(rec("p2", "fine"))

	s.UpdateTitles(map[string]string{
		"p1":      "Went for a run this morning",
		"missing": "ignored",
	})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Went for a run this morning", list[0].Title)
	assert.Equal(t, "fine", list[1].Title)
}

func TestFilePersisterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	p := NewFilePersister(path)

	s := NewStore(p)
	s.Add(Record{ID: "c1", Type: TypeChallenge, Title: "Morning walk", SavedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)})
	s.Add(Record{ID: "p1", Type: TypePost, Title: "First post", SavedAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)})
	s.Remove("c1")

	reloaded := NewStore(NewFilePersister(path))
	require.Equal(t, 1, reloaded.Len())

	got := reloaded.List()[0]
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, TypePost, got.Type)
	assert.Equal(t, "First post", got.Title)
	assert.True(t, got.SavedAt.Equal(time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)))
}

func TestFilePersisterMissingFile(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "nope", "bookmarks.json"))

	records, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0600))

	s := NewStore(NewFilePersister(path))
	assert.Equal(t, 0, s.Len())
}
