package bookmarks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/logger"
	"github.com/touchgrass/cli/pkg/notify"
)

// maxRepairedTitleLen caps post-derived titles before the ellipsis is added
const maxRepairedTitleLen = 50

// Resolver looks up the remote entity behind a bookmark. Implementations
// return an API not-found error when the entity no longer exists.
type Resolver interface {
	Challenge(ctx context.Context, id string) (*api.Challenge, error)
	Post(ctx context.Context, id string) (*api.Post, error)
	Content(ctx context.Context, id string) (*api.ContentItem, error)
}

// APIResolver resolves bookmarks against the live backend
type APIResolver struct{}

func (APIResolver) Challenge(ctx context.Context, id string) (*api.Challenge, error) {
	return api.GetChallenge(ctx, id)
}

func (APIResolver) Post(ctx context.Context, id string) (*api.Post, error) {
	return api.GetPost(ctx, id)
}

func (APIResolver) Content(ctx context.Context, id string) (*api.ContentItem, error) {
	return api.GetContentItem(ctx, id)
}

// Validator reconciles the bookmark store against remote state. One pass per
// session: stale titles are repaired in place, bookmarks whose entity is gone
// or empty are removed in a single batch.
type Validator struct {
	store    *Store
	resolver Resolver
	notifier notify.Notifier

	mu  sync.Mutex
	ran bool
}

// NewValidator creates a validator over the given store
func NewValidator(store *Store, resolver Resolver, notifier notify.Notifier) *Validator {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Validator{
		store:    store,
		resolver: resolver,
		notifier: notifier,
	}
}

// RunIfNeeded runs a validation pass the first time it is called in a session
// with a non-empty store. Later calls are no-ops, so callers can invoke it on
// every bookmark-list render.
func (v *Validator) RunIfNeeded(ctx context.Context) {
	v.mu.Lock()
	if v.ran || v.store.Len() == 0 {
		v.mu.Unlock()
		return
	}
	v.ran = true
	v.mu.Unlock()

	v.Run(ctx)
}

type verdict struct {
	id     string
	remove bool
	title  string // non-empty when a stale title should be repaired
}

// Run performs one validation pass over a snapshot of the store. Lookups run
// concurrently; removals and title repairs are applied only after every
// lookup has settled, each as a single batched write.
func (v *Validator) Run(ctx context.Context) {
	snapshot := v.store.List()
	if len(snapshot) == 0 {
		return
	}

	results := make(chan verdict, len(snapshot))
	var wg sync.WaitGroup
	for _, rec := range snapshot {
		wg.Add(1)
		go func(rec Record) {
			defer wg.Done()
			results <- v.check(ctx, rec)
		}(rec)
	}
	wg.Wait()
	close(results)

	var removals []string
	repairs := make(map[string]string)
	for res := range results {
		if res.remove {
			removals = append(removals, res.id)
		} else if res.title != "" {
			repairs[res.id] = res.title
		}
	}

	v.store.UpdateTitles(repairs)
	removed := v.store.RemoveBatch(removals)

	logger.Info("Bookmark validation complete",
		"checked", len(snapshot), "removed", removed, "repaired", len(repairs))

	if removed > 0 {
		noun := "items"
		if removed == 1 {
			noun = "item"
		}
		v.notifier.Notify(notify.LevelInfo,
			fmt.Sprintf("Removed %d corrupted or deleted %s", removed, noun))
	}
}

// check resolves one bookmark. A lookup failure of any kind removes the
// bookmark: a reference that cannot be verified is treated as broken rather
// than kept on faith.
func (v *Validator) check(ctx context.Context, rec Record) verdict {
	res := verdict{id: rec.ID}

	title, err := v.resolveTitle(ctx, rec)
	if err != nil || title == "" {
		logger.Debug("Dropping unresolvable bookmark",
			"id", rec.ID, "type", rec.Type, "error", err)
		res.remove = true
		return res
	}

	if titleDegraded(rec.Title) && title != rec.Title {
		res.title = title
	}
	return res
}

// resolveTitle fetches the entity and derives its canonical display title.
// An empty result means the entity carries no meaningful content.
func (v *Validator) resolveTitle(ctx context.Context, rec Record) (string, error) {
	switch rec.Type {
	case TypeChallenge:
		ch, err := v.resolver.Challenge(ctx, rec.ID)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(ch.Title), nil

	case TypePost:
		post, err := v.resolver.Post(ctx, rec.ID)
		if err != nil {
			return "", err
		}
		return DisplayTitle(post), nil

	case TypeArticle, TypeVideo:
		item, err := v.resolver.Content(ctx, rec.ID)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(item.Title), nil

	default:
		return "", fmt.Errorf("unknown bookmark type %q", rec.Type)
	}
}

// DisplayTitle derives a display title from a post body, falling back to a
// media description for caption-less media posts.
func DisplayTitle(post *api.Post) string {
	body := strings.TrimSpace(post.Body)
	if body != "" {
		return truncateTitle(body)
	}

	switch post.MediaType {
	case api.MediaTypeImage:
		return "Image post"
	case api.MediaTypeVideo:
		return "Video post"
	default:
		if post.ChallengeID != "" {
			return "Community post"
		}
		return ""
	}
}

// truncateTitle shortens long bodies to a display title, appending an
// ellipsis when anything was cut
func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= maxRepairedTitleLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxRepairedTitleLen])) + "…"
}

// titleDegraded reports whether a stored title is a corruption artifact: a
// bare ellipsis or fewer than three characters
func titleDegraded(title string) bool {
	t := strings.TrimSpace(title)
	if t == "…" || t == "..." {
		return true
	}
	return utf8.RuneCountInString(t) < 3
}
