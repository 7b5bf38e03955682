// Package feed keeps a local view of the community feed consistent with the
// backend. Refreshes are epoch-numbered so a slow response can never
// overwrite the result of a newer one, and realtime change events trigger
// refreshes unless the change echoes this client's own pending mutation.
package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/logger"
)

// Fetcher retrieves a page of posts
type Fetcher func(ctx context.Context, q api.FeedQuery) (*api.PostListResponse, error)

// PendingProbe reports whether an entity id has one of this client's own
// mutations in flight
type PendingProbe func(id string) bool

// Options configures a Reconciler
type Options struct {
	Sort      api.FeedSort
	Type      api.FeedType
	SelfID    string
	Following []string
	PageSize  int

	// TopWindow bounds the engagement ranking for the top sort. Zero means
	// seven days.
	TopWindow time.Duration

	// Pending suppresses refreshes for self-originated changes. Nil means
	// nothing is ever pending.
	Pending PendingProbe

	// Now is stubbed in tests
	Now func() time.Time
}

// Reconciler owns the local feed snapshot
type Reconciler struct {
	fetch   Fetcher
	pending PendingProbe
	now     func() time.Time

	mu        sync.Mutex
	epoch     uint64
	posts     []api.Post
	unposted  []api.Post // locally authored, no server echo yet
	sort      api.FeedSort
	ftype     api.FeedType
	selfID    string
	following map[string]struct{}
	pageSize  int
	topWindow time.Duration
}

// NewReconciler creates a reconciler. A nil fetcher dispatches to the live
// API.
func NewReconciler(fetch Fetcher, opts Options) *Reconciler {
	if fetch == nil {
		fetch = api.GetPosts
	}
	if opts.Sort == "" {
		opts.Sort = api.SortNewest
	}
	if opts.Type == "" {
		opts.Type = api.TypeAll
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.TopWindow <= 0 {
		opts.TopWindow = 7 * 24 * time.Hour
	}
	if opts.Pending == nil {
		opts.Pending = func(string) bool { return false }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	following := make(map[string]struct{}, len(opts.Following))
	for _, id := range opts.Following {
		following[id] = struct{}{}
	}

	return &Reconciler{
		fetch:     fetch,
		pending:   opts.Pending,
		now:       opts.Now,
		sort:      opts.Sort,
		ftype:     opts.Type,
		selfID:    opts.SelfID,
		following: following,
		pageSize:  opts.PageSize,
		topWindow: opts.TopWindow,
	}
}

// SetSort changes the active sort mode. Takes effect on the next refresh.
func (r *Reconciler) SetSort(s api.FeedSort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sort = s
}

// SetType changes the active media-type filter. Takes effect on the next
// refresh.
func (r *Reconciler) SetType(t api.FeedType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ftype = t
}

// SetFollowing replaces the followed-author set used by the following sort
func (r *Reconciler) SetFollowing(ids []string) {
	following := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		following[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.following = following
}

// Refresh fetches the feed under a fresh epoch and applies the response only
// if no newer refresh was started while it was in flight. A discarded stale
// response is not an error.
func (r *Reconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.epoch++
	epoch := r.epoch
	q := api.FeedQuery{
		Sort:     r.sort,
		Type:     r.ftype,
		Page:     1,
		PageSize: r.pageSize,
	}
	r.mu.Unlock()

	resp, err := r.fetch(ctx, q)

	r.mu.Lock()
	defer r.mu.Unlock()

	if epoch != r.epoch {
		logger.Debug("Discarding stale feed response", "epoch", epoch, "current", r.epoch)
		return nil
	}
	if err != nil {
		return err
	}

	r.applyLocked(resp.Posts)
	return nil
}

// AddPending registers a locally authored post that has been submitted but
// not yet confirmed. It shows in the snapshot immediately and is withdrawn
// when a refresh brings back the server's echo.
func (r *Reconciler) AddPending(post api.Post) string {
	if post.ClientID == "" {
		post.ClientID = uuid.New().String()
	}
	if post.ID == "" {
		post.ID = post.ClientID
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.unposted = append(r.unposted, post)
	r.posts = r.orderLocked(dedupe(append([]api.Post{post}, r.posts...)))
	return post.ClientID
}

// Snapshot returns the current ordered feed and the epoch it reflects
func (r *Reconciler) Snapshot() ([]api.Post, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]api.Post, len(r.posts))
	copy(out, r.posts)
	return out, r.epoch
}

// ShouldRefresh decides whether a remote change event warrants a refresh.
// Changes to an entity this client is itself mutating are suppressed; the
// refresh happens when the mutation settles.
func (r *Reconciler) ShouldRefresh(ev ChangeEvent) bool {
	switch ev.Table {
	case TablePosts, TableLikes, TableComments:
	default:
		return false
	}
	return !r.pending(ev.EntityID)
}

// HandleChange refreshes the feed in response to a remote change event,
// unless the event should be suppressed. It reports whether a refresh ran.
func (r *Reconciler) HandleChange(ctx context.Context, ev ChangeEvent) bool {
	if !r.ShouldRefresh(ev) {
		logger.Debug("Suppressing refresh for own pending change",
			"table", string(ev.Table), "entity_id", ev.EntityID)
		return false
	}

	if err := r.Refresh(ctx); err != nil {
		logger.Warn("Change-triggered refresh failed", "error", err)
	}
	return true
}

// applyLocked merges a fresh server page with the local pending posts and
// reorders under the active sort
func (r *Reconciler) applyLocked(remote []api.Post) {
	// withdraw pending posts the server now echoes back
	echoed := make(map[string]struct{})
	for _, p := range remote {
		if p.ClientID != "" {
			echoed[p.ClientID] = struct{}{}
		}
	}
	kept := r.unposted[:0]
	for _, p := range r.unposted {
		if _, ok := echoed[p.ClientID]; !ok {
			kept = append(kept, p)
		}
	}
	r.unposted = kept

	r.posts = r.orderLocked(dedupe(append(append([]api.Post{}, kept...), remote...)))
}

// orderLocked filters and sorts posts under the active view settings
func (r *Reconciler) orderLocked(posts []api.Post) []api.Post {
	filtered := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if !matchesType(p, r.ftype) {
			continue
		}
		if r.sort == api.SortFollowing && !r.fromFollowedLocked(p) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch r.sort {
	case api.SortTop:
		cutoff := r.now().Add(-r.topWindow)
		sort.SliceStable(filtered, func(i, j int) bool {
			a, b := filtered[i], filtered[j]
			aIn, bIn := a.CreatedAt.After(cutoff), b.CreatedAt.After(cutoff)
			if aIn != bIn {
				return aIn
			}
			if aIn {
				as, bs := engagement(a), engagement(b)
				if as != bs {
					return as > bs
				}
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	return filtered
}

// fromFollowedLocked reports whether a post's author is followed; the
// viewer's own posts always qualify
func (r *Reconciler) fromFollowedLocked(p api.Post) bool {
	if r.selfID != "" && p.UserID == r.selfID {
		return true
	}
	_, ok := r.following[p.UserID]
	return ok
}

func dedupe(posts []api.Post) []api.Post {
	seen := make(map[string]struct{}, len(posts))
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func engagement(p api.Post) int {
	return p.LikeCount + p.CommentCount
}

func matchesType(p api.Post, t api.FeedType) bool {
	switch t {
	case api.TypeImages:
		return p.MediaType == api.MediaTypeImage
	case api.TypeVideos:
		return p.MediaType == api.MediaTypeVideo
	case api.TypeText:
		return p.MediaType == api.MediaTypeText || p.MediaType == ""
	default:
		return true
	}
}
