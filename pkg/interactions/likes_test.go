package interactions

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/notify"
)

func TestToggleOptimisticFlip(t *testing.T) {
	toggle := func(_ context.Context, postID string) (*api.LikeResponse, error) {
		return &api.LikeResponse{Liked: true, LikeCount: 6}, nil
	}

	l := NewLikes(toggle, notify.Discard{})
	l.Seed(api.Post{ID: "p1", LikeCount: 5, ViewerHasLiked: false})

	require.NoError(t, l.Toggle(context.Background(), "p1"))

	st, ok := l.State("p1")
	require.True(t, ok)
	assert.True(t, st.ViewerLiked)
	assert.Equal(t, 6, st.Count)
}

func TestToggleRollsBackOnFailure(t *testing.T) {
	toggle := func(_ context.Context, postID string) (*api.LikeResponse, error) {
		return nil, errors.New("503 from upstream")
	}

	rec := &notify.Recorder{}
	l := NewLikes(toggle, rec)
	l.Seed(api.Post{ID: "p1", LikeCount: 5, ViewerHasLiked: true})

	err := l.Toggle(context.Background(), "p1")
	require.Error(t, err)

	st, _ := l.State("p1")
	assert.True(t, st.ViewerLiked)
	assert.Equal(t, 5, st.Count)

	require.Len(t, rec.All(), 1)
	assert.Equal(t, notify.LevelError, rec.All()[0].Level)
}

func TestToggleDuplicateDispatchesOnce(t *testing.T) {
	var calls int64
	started := make(chan struct{})
	release := make(chan struct{})
	toggle := func(_ context.Context, postID string) (*api.LikeResponse, error) {
		atomic.AddInt64(&calls, 1)
		close(started)
		<-release
		return &api.LikeResponse{Liked: true, LikeCount: 1}, nil
	}

	l := NewLikes(toggle, notify.Discard{})
	l.Seed(api.Post{ID: "p1"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, l.Toggle(context.Background(), "p1"))
	}()

	<-started
	// second trigger while the first is in flight is silently dropped
	err := l.Toggle(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	st, _ := l.State("p1")
	assert.True(t, st.ViewerLiked)
	assert.Equal(t, 1, st.Count)
}

func TestToggleSettledAllowsNewToggle(t *testing.T) {
	var calls int
	toggle := func(_ context.Context, postID string) (*api.LikeResponse, error) {
		calls++
		return &api.LikeResponse{Liked: calls%2 == 1, LikeCount: calls % 2}, nil
	}

	l := NewLikes(toggle, notify.Discard{})
	l.Seed(api.Post{ID: "p1"})

	require.NoError(t, l.Toggle(context.Background(), "p1"))
	require.NoError(t, l.Toggle(context.Background(), "p1"))

	assert.Equal(t, 2, calls)
	st, _ := l.State("p1")
	assert.False(t, st.ViewerLiked)
	assert.Equal(t, 0, st.Count)
}

func TestSeedSkipsPendingPost(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	toggle := func(_ context.Context, postID string) (*api.LikeResponse, error) {
		close(started)
		<-release
		return &api.LikeResponse{Liked: true, LikeCount: 1}, nil
	}

	l := NewLikes(toggle, notify.Discard{})
	l.Seed(api.Post{ID: "p1", LikeCount: 0})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Toggle(context.Background(), "p1")
	}()

	<-started
	// a refresh landing mid-flight must not clobber the optimistic state
	l.Seed(api.Post{ID: "p1", LikeCount: 0, ViewerHasLiked: false})

	st, _ := l.State("p1")
	assert.True(t, st.ViewerLiked)

	close(release)
	wg.Wait()
}

func TestToggleCountNeverNegative(t *testing.T) {
	toggle := func(_ context.Context, postID string) (*api.LikeResponse, error) {
		return &api.LikeResponse{Liked: false, LikeCount: 0}, nil
	}

	l := NewLikes(toggle, notify.Discard{})
	// unliking a post we never saw a count for
	l.Seed(api.Post{ID: "p1", LikeCount: 0, ViewerHasLiked: true})

	require.NoError(t, l.Toggle(context.Background(), "p1"))
	st, _ := l.State("p1")
	assert.Equal(t, 0, st.Count)
}
