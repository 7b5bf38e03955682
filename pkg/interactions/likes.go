package interactions

import (
	"context"
	"errors"
	"sync"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/logger"
	"github.com/touchgrass/cli/pkg/notify"
)

// ErrInFlight is returned when a mutation is dropped because the same entity
// already has one pending. Callers treat it as a silent no-op.
var ErrInFlight = errors.New("request already in flight for this entity")

// LikeState is the locally tracked like state of a post
type LikeState struct {
	Count       int
	ViewerLiked bool
}

// Toggler dispatches a like toggle to the backend
type Toggler func(ctx context.Context, postID string) (*api.LikeResponse, error)

// Likes tracks per-post like state, applying toggles optimistically before
// the network round trip and rolling back on failure.
type Likes struct {
	guard    *Guard
	toggle   Toggler
	notifier notify.Notifier

	mu     sync.Mutex
	states map[string]LikeState
}

// NewLikes creates a like tracker. A nil toggler dispatches to the live API.
func NewLikes(toggle Toggler, notifier notify.Notifier) *Likes {
	if toggle == nil {
		toggle = api.ToggleLike
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Likes{
		guard:    NewGuard(),
		toggle:   toggle,
		notifier: notifier,
		states:   make(map[string]LikeState),
	}
}

// Guard exposes the in-flight set, for suppressing refreshes triggered by
// this client's own pending likes
func (l *Likes) Guard() *Guard {
	return l.guard
}

// Seed records the server-reported like state of a post, unless that post
// has a toggle in flight (the local optimistic state wins until it settles)
func (l *Likes) Seed(post api.Post) {
	if l.guard.Pending(post.ID) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[post.ID] = LikeState{Count: post.LikeCount, ViewerLiked: post.ViewerHasLiked}
}

// SeedAll seeds like state for a page of posts
func (l *Likes) SeedAll(posts []api.Post) {
	for _, p := range posts {
		l.Seed(p)
	}
}

// State returns the tracked like state for a post
func (l *Likes) State(postID string) (LikeState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.states[postID]
	return st, ok
}

// Toggle flips the viewer's like on a post. The local state changes
// immediately; exactly one network request is dispatched. If the post
// already has a toggle in flight, ErrInFlight is returned and nothing
// changes. On backend failure the local state is restored and the user is
// notified.
func (l *Likes) Toggle(ctx context.Context, postID string) error {
	if !l.guard.TryAcquire(postID) {
		logger.Debug("Like toggle dropped, request in flight", "post_id", postID)
		return ErrInFlight
	}
	defer l.guard.Release(postID)

	l.mu.Lock()
	prev := l.states[postID]
	next := LikeState{ViewerLiked: !prev.ViewerLiked}
	if next.ViewerLiked {
		next.Count = prev.Count + 1
	} else {
		next.Count = prev.Count - 1
		if next.Count < 0 {
			next.Count = 0
		}
	}
	l.states[postID] = next
	l.mu.Unlock()

	resp, err := l.toggle(ctx, postID)
	if err != nil {
		l.mu.Lock()
		l.states[postID] = prev
		l.mu.Unlock()

		logger.Warn("Like toggle failed, rolled back", "post_id", postID, "error", err)
		l.notifier.Notify(notify.LevelError, "Couldn't update like. Try again.")
		return err
	}

	// reconcile to the server's authoritative count
	l.mu.Lock()
	l.states[postID] = LikeState{Count: resp.LikeCount, ViewerLiked: resp.Liked}
	l.mu.Unlock()
	return nil
}
