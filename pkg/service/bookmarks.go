package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/touchgrass/cli/pkg/bookmarks"
	"github.com/touchgrass/cli/pkg/config"
	"github.com/touchgrass/cli/pkg/notify"
	"github.com/touchgrass/cli/pkg/output"
	"github.com/touchgrass/cli/pkg/prompter"
)

// BookmarkService manages the local bookmark collection
type BookmarkService struct {
	store     *bookmarks.Store
	validator *bookmarks.Validator
}

// NewBookmarkService opens the bookmark store from its configured location
func NewBookmarkService() *BookmarkService {
	store := bookmarks.NewStore(bookmarks.NewFilePersister(config.GetBookmarksPath()))
	return &BookmarkService{
		store:     store,
		validator: bookmarks.NewValidator(store, bookmarks.APIResolver{}, notify.Console{}),
	}
}

// NewBookmarkServiceWith wires an explicit store and validator, for tests
func NewBookmarkServiceWith(store *bookmarks.Store, validator *bookmarks.Validator) *BookmarkService {
	return &BookmarkService{store: store, validator: validator}
}

// Add saves a bookmark to the given entity, fetching its current title
func (s *BookmarkService) Add(ctx context.Context, entityType, id string) error {
	bt, err := parseEntityType(entityType)
	if err != nil {
		return err
	}

	if s.store.IsBookmarked(id) {
		output.PrintInfo("Already bookmarked")
		return nil
	}

	title, err := fetchTitle(ctx, bt, id)
	if err != nil {
		output.PrintError("Could not resolve %s %s: %v", entityType, id, err)
		return err
	}

	s.store.Add(bookmarks.Record{ID: id, Type: bt, Title: title, SavedAt: time.Now().UTC()})
	output.PrintSuccess("Bookmarked %q", title)
	return nil
}

// Remove deletes a bookmark
func (s *BookmarkService) Remove(id string) error {
	if !s.store.IsBookmarked(id) {
		output.PrintInfo("No such bookmark")
		return nil
	}
	s.store.Remove(id)
	output.PrintSuccess("Bookmark removed")
	return nil
}

// Clear deletes all bookmarks after confirmation
func (s *BookmarkService) Clear() error {
	n := s.store.Len()
	if n == 0 {
		output.PrintInfo("No bookmarks to clear")
		return nil
	}

	confirm, err := prompter.PromptConfirm(fmt.Sprintf("Delete all %d bookmarks?", n))
	if err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	s.store.Clear()
	output.PrintSuccess("Cleared %d bookmarks", n)
	return nil
}

// List validates the collection once per session, then renders it
// newest-saved first
func (s *BookmarkService) List(ctx context.Context) error {
	s.validator.RunIfNeeded(ctx)

	records := s.store.List()
	if len(records) == 0 {
		output.PrintInfo("No bookmarks yet")
		return nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SavedAt.After(records[j].SavedAt)
	})

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			string(r.Type),
			r.Title,
			r.SavedAt.Format("Jan 2 2006"),
		})
	}
	return output.PrintList("Bookmarks", rows, []string{"ID", "Type", "Title", "Saved"})
}

// Validate forces a validation pass regardless of session state
func (s *BookmarkService) Validate(ctx context.Context) error {
	if s.store.Len() == 0 {
		output.PrintInfo("No bookmarks to validate")
		return nil
	}

	output.PrintInfo("Validating %d bookmarks...", s.store.Len())
	s.validator.Run(ctx)
	output.PrintSuccess("%d bookmarks remain", s.store.Len())
	return nil
}

// Store exposes the underlying store
func (s *BookmarkService) Store() *bookmarks.Store {
	return s.store
}

func parseEntityType(s string) (bookmarks.EntityType, error) {
	switch bookmarks.EntityType(strings.ToLower(s)) {
	case bookmarks.TypeChallenge, bookmarks.TypePost, bookmarks.TypeArticle, bookmarks.TypeVideo:
		return bookmarks.EntityType(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("invalid bookmark type %q (challenge, post, article, video)", s)
	}
}

func fetchTitle(ctx context.Context, bt bookmarks.EntityType, id string) (string, error) {
	resolver := bookmarks.APIResolver{}
	switch bt {
	case bookmarks.TypeChallenge:
		ch, err := resolver.Challenge(ctx, id)
		if err != nil {
			return "", err
		}
		return ch.Title, nil
	case bookmarks.TypePost:
		post, err := resolver.Post(ctx, id)
		if err != nil {
			return "", err
		}
		return bookmarks.DisplayTitle(post), nil
	default:
		item, err := resolver.Content(ctx, id)
		if err != nil {
			return "", err
		}
		return item.Title, nil
	}
}
