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

func TestCommentOptimisticIncrement(t *testing.T) {
	create := func(_ context.Context, postID, body string) (*api.Comment, error) {
		return &api.Comment{ID: "c1", PostID: postID, Body: body}, nil
	}

	c := NewComments(create, notify.Discard{})
	c.Seed(api.Post{ID: "p1", CommentCount: 3})

	comment, err := c.Add(context.Background(), "p1", "nice one")
	require.NoError(t, err)
	assert.Equal(t, "c1", comment.ID)

	n, ok := c.Count("p1")
	require.True(t, ok)
	assert.Equal(t, 4, n)
}

func TestCommentRollsBackOnFailure(t *testing.T) {
	create := func(_ context.Context, postID, body string) (*api.Comment, error) {
		return nil, errors.New("body too long")
	}

	rec := &notify.Recorder{}
	c := NewComments(create, rec)
	c.Seed(api.Post{ID: "p1", CommentCount: 3})

	_, err := c.Add(context.Background(), "p1", "way too long")
	require.Error(t, err)

	n, _ := c.Count("p1")
	assert.Equal(t, 3, n)

	require.Len(t, rec.All(), 1)
	assert.Equal(t, notify.LevelError, rec.All()[0].Level)
}

func TestCommentDuplicateDispatchesOnce(t *testing.T) {
	var calls int64
	started := make(chan struct{})
	release := make(chan struct{})
	create := func(_ context.Context, postID, body string) (*api.Comment, error) {
		atomic.AddInt64(&calls, 1)
		close(started)
		<-release
		return &api.Comment{ID: "c1", PostID: postID, Body: body}, nil
	}

	c := NewComments(create, notify.Discard{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Add(context.Background(), "p1", "first")
		assert.NoError(t, err)
	}()

	<-started
	_, err := c.Add(context.Background(), "p1", "second")
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	n, _ := c.Count("p1")
	assert.Equal(t, 1, n)
}
