package interactions

import (
	"context"
	"sync"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/logger"
	"github.com/touchgrass/cli/pkg/notify"
)

// Commenter dispatches a comment creation to the backend
type Commenter func(ctx context.Context, postID, body string) (*api.Comment, error)

// Comments tracks per-post comment counts with optimistic increments.
// Comment counts only grow locally; deletion is server-driven and arrives
// through feed refreshes.
type Comments struct {
	guard    *Guard
	create   Commenter
	notifier notify.Notifier

	mu     sync.Mutex
	counts map[string]int
}

// NewComments creates a comment tracker. A nil commenter dispatches to the
// live API.
func NewComments(create Commenter, notifier notify.Notifier) *Comments {
	if create == nil {
		create = api.CreateComment
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Comments{
		guard:    NewGuard(),
		create:   create,
		notifier: notifier,
		counts:   make(map[string]int),
	}
}

// Guard exposes the in-flight set
func (c *Comments) Guard() *Guard {
	return c.guard
}

// Seed records the server-reported comment count of a post, unless that
// post has a comment in flight
func (c *Comments) Seed(post api.Post) {
	if c.guard.Pending(post.ID) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[post.ID] = post.CommentCount
}

// SeedAll seeds comment counts for a page of posts
func (c *Comments) SeedAll(posts []api.Post) {
	for _, p := range posts {
		c.Seed(p)
	}
}

// Count returns the tracked comment count for a post
func (c *Comments) Count(postID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.counts[postID]
	return n, ok
}

// Add posts a comment. The local count bumps immediately; a backend failure
// rolls it back and notifies the user. A post with a comment already in
// flight returns ErrInFlight untouched.
func (c *Comments) Add(ctx context.Context, postID, body string) (*api.Comment, error) {
	if !c.guard.TryAcquire(postID) {
		logger.Debug("Comment dropped, request in flight", "post_id", postID)
		return nil, ErrInFlight
	}
	defer c.guard.Release(postID)

	c.mu.Lock()
	c.counts[postID]++
	c.mu.Unlock()

	comment, err := c.create(ctx, postID, body)
	if err != nil {
		c.mu.Lock()
		if c.counts[postID] > 0 {
			c.counts[postID]--
		}
		c.mu.Unlock()

		logger.Warn("Comment failed, rolled back", "post_id", postID, "error", err)
		c.notifier.Notify(notify.LevelError, "Couldn't post comment. Try again.")
		return nil, err
	}

	return comment, nil
}
