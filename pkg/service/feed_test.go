package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchgrass/cli/pkg/api"
)

func TestParseSort(t *testing.T) {
	for _, valid := range []string{"newest", "top", "following"} {
		got, err := ParseSort(valid)
		require.NoError(t, err)
		assert.Equal(t, api.FeedSort(valid), got)
	}

	_, err := ParseSort("hottest")
	assert.Error(t, err)
}

func TestParseType(t *testing.T) {
	for _, valid := range []string{"all", "images", "videos", "text"} {
		got, err := ParseType(valid)
		require.NoError(t, err)
		assert.Equal(t, api.FeedType(valid), got)
	}

	_, err := ParseType("audio")
	assert.Error(t, err)
}

func TestPreviewBody(t *testing.T) {
	assert.Equal(t, "short post", previewBody(api.Post{Body: "short post"}))
	assert.Equal(t, "[image]", previewBody(api.Post{MediaType: api.MediaTypeImage}))
	assert.Equal(t, "[video]", previewBody(api.Post{MediaType: api.MediaTypeVideo}))

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	preview := previewBody(api.Post{Body: string(long)})
	assert.Len(t, preview, 63)
}
