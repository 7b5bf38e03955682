package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchgrass/cli/pkg/api"
)

var base = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func post(id string, age time.Duration) api.Post {
	return api.Post{ID: id, UserID: "u-" + id, MediaType: api.MediaTypeText, CreatedAt: base.Add(-age)}
}

func ids(posts []api.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func fixedNow() time.Time { return base }

func TestRefreshAppliesResponse(t *testing.T) {
	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		return &api.PostListResponse{Posts: []api.Post{
			post("old", 2 * time.Hour),
			post("new", time.Minute),
		}}, nil
	}

	r := NewReconciler(fetch, Options{Now: fixedNow})
	require.NoError(t, r.Refresh(context.Background()))

	posts, epoch := r.Snapshot()
	assert.Equal(t, uint64(1), epoch)
	assert.Equal(t, []string{"new", "old"}, ids(posts))
}

func TestStaleResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		var slow bool
		once.Do(func() {
			slow = true
			close(firstStarted)
		})
		if slow {
			<-releaseFirst
			return &api.PostListResponse{Posts: []api.Post{post("stale", time.Hour)}}, nil
		}
		return &api.PostListResponse{Posts: []api.Post{post("fresh", time.Minute)}}, nil
	}

	r := NewReconciler(fetch, Options{Now: fixedNow})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, r.Refresh(context.Background()))
	}()

	<-firstStarted
	// second refresh starts and settles while the first is still in flight
	require.NoError(t, r.Refresh(context.Background()))

	close(releaseFirst)
	wg.Wait()

	posts, epoch := r.Snapshot()
	assert.Equal(t, uint64(2), epoch)
	assert.Equal(t, []string{"fresh"}, ids(posts))
}

func TestStaleErrorDoesNotClobber(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		var slow bool
		once.Do(func() {
			slow = true
			close(firstStarted)
		})
		if slow {
			<-releaseFirst
			return nil, errors.New("timeout")
		}
		return &api.PostListResponse{Posts: []api.Post{post("fresh", time.Minute)}}, nil
	}

	r := NewReconciler(fetch, Options{Now: fixedNow})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// a stale failure is reported as nil, the newer state already won
		assert.NoError(t, r.Refresh(context.Background()))
	}()

	<-firstStarted
	require.NoError(t, r.Refresh(context.Background()))
	close(releaseFirst)
	wg.Wait()

	posts, _ := r.Snapshot()
	assert.Equal(t, []string{"fresh"}, ids(posts))
}

func TestRefreshErrorKeepsSnapshot(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		calls++
		if calls == 1 {
			return &api.PostListResponse{Posts: []api.Post{post("p1", time.Minute)}}, nil
		}
		return nil, errors.New("503")
	}

	r := NewReconciler(fetch, Options{Now: fixedNow})
	require.NoError(t, r.Refresh(context.Background()))
	require.Error(t, r.Refresh(context.Background()))

	posts, _ := r.Snapshot()
	assert.Equal(t, []string{"p1"}, ids(posts))
}

func TestTopSortRanksByEngagementInWindow(t *testing.T) {
	inWindow1 := post("quiet", 24*time.Hour)
	inWindow2 := post("busy", 48*time.Hour)
	inWindow2.LikeCount, inWindow2.CommentCount = 10, 5
	outside := post("ancient-hit", 10*24*time.Hour)
	outside.LikeCount = 1000

	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		return &api.PostListResponse{Posts: []api.Post{inWindow1, inWindow2, outside}}, nil
	}

	r := NewReconciler(fetch, Options{Sort: api.SortTop, Now: fixedNow})
	require.NoError(t, r.Refresh(context.Background()))

	posts, _ := r.Snapshot()
	// engagement ranks inside the trailing window; older posts trail it
	assert.Equal(t, []string{"busy", "quiet", "ancient-hit"}, ids(posts))
}

func TestFollowingSortFiltersToFollowedAndSelf(t *testing.T) {
	mine := post("mine", time.Minute)
	mine.UserID = "me"
	followed := post("followed", time.Hour)
	followed.UserID = "friend"
	stranger := post("stranger", 2*time.Minute)
	stranger.UserID = "nobody"

	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		return &api.PostListResponse{Posts: []api.Post{mine, followed, stranger}}, nil
	}

	r := NewReconciler(fetch, Options{
		Sort:      api.SortFollowing,
		SelfID:    "me",
		Following: []string{"friend"},
		Now:       fixedNow,
	})
	require.NoError(t, r.Refresh(context.Background()))

	posts, _ := r.Snapshot()
	assert.Equal(t, []string{"mine", "followed"}, ids(posts))
}

func TestTypeFilter(t *testing.T) {
	img := post("img", time.Minute)
	img.MediaType = api.MediaTypeImage
	vid := post("vid", 2*time.Minute)
	vid.MediaType = api.MediaTypeVideo
	txt := post("txt", 3*time.Minute)

	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		return &api.PostListResponse{Posts: []api.Post{img, vid, txt}}, nil
	}

	r := NewReconciler(fetch, Options{Type: api.TypeImages, Now: fixedNow})
	require.NoError(t, r.Refresh(context.Background()))
	posts, _ := r.Snapshot()
	assert.Equal(t, []string{"img"}, ids(posts))

	r.SetType(api.TypeVideos)
	require.NoError(t, r.Refresh(context.Background()))
	posts, _ = r.Snapshot()
	assert.Equal(t, []string{"vid"}, ids(posts))
}

func TestPendingPostShowsAndWithdraws(t *testing.T) {
	var echo []api.Post
	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		return &api.PostListResponse{Posts: echo}, nil
	}

	r := NewReconciler(fetch, Options{Now: fixedNow})

	clientID := r.AddPending(api.Post{UserID: "me", Body: "just posted", MediaType: api.MediaTypeText})
	require.NotEmpty(t, clientID)

	posts, _ := r.Snapshot()
	require.Len(t, posts, 1)
	assert.Equal(t, "just posted", posts[0].Body)

	// refresh without the echo keeps the pending post visible
	require.NoError(t, r.Refresh(context.Background()))
	posts, _ = r.Snapshot()
	require.Len(t, posts, 1)

	// once the server echoes it back, the server copy replaces the pending one
	confirmed := post("server-id", time.Second)
	confirmed.ClientID = clientID
	confirmed.Body = "just posted"
	echo = []api.Post{confirmed}

	require.NoError(t, r.Refresh(context.Background()))
	posts, _ = r.Snapshot()
	require.Len(t, posts, 1)
	assert.Equal(t, "server-id", posts[0].ID)
}

func TestShouldRefresh(t *testing.T) {
	pending := map[string]bool{"p-mine": true}
	r := NewReconciler(
		func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
			return &api.PostListResponse{}, nil
		},
		Options{Pending: func(id string) bool { return pending[id] }, Now: fixedNow},
	)

	tests := []struct {
		name string
		ev   ChangeEvent
		want bool
	}{
		{"post change", ChangeEvent{Table: TablePosts, Op: OpInsert, EntityID: "p-other"}, true},
		{"like on other post", ChangeEvent{Table: TableLikes, Op: OpInsert, EntityID: "p-other"}, true},
		{"own pending like", ChangeEvent{Table: TableLikes, Op: OpInsert, EntityID: "p-mine"}, false},
		{"own pending comment", ChangeEvent{Table: TableComments, Op: OpInsert, EntityID: "p-mine"}, false},
		{"irrelevant table", ChangeEvent{Table: "users", Op: OpUpdate, EntityID: "u1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ShouldRefresh(tt.ev))
		})
	}
}

func TestHandleChangeRefreshes(t *testing.T) {
	fetches := 0
	fetch := func(_ context.Context, q api.FeedQuery) (*api.PostListResponse, error) {
		fetches++
		return &api.PostListResponse{Posts: []api.Post{post("p1", time.Minute)}}, nil
	}

	inFlight := true
	r := NewReconciler(fetch, Options{
		Pending: func(id string) bool { return inFlight && id == "p1" },
		Now:     fixedNow,
	})

	assert.False(t, r.HandleChange(context.Background(), ChangeEvent{Table: TableLikes, EntityID: "p1"}))
	assert.Equal(t, 0, fetches)

	inFlight = false
	assert.True(t, r.HandleChange(context.Background(), ChangeEvent{Table: TableLikes, EntityID: "p1"}))
	assert.Equal(t, 1, fetches)
}
