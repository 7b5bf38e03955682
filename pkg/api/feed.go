package api

import (
	"context"
	"fmt"

	"github.com/touchgrass/cli/pkg/client"
	"github.com/touchgrass/cli/pkg/logger"
)

// FeedSort enumerates the server-side feed sort modes
type FeedSort string

const (
	SortNewest    FeedSort = "newest"
	SortTop       FeedSort = "top"
	SortFollowing FeedSort = "following"
)

// FeedType enumerates the media-type filters
type FeedType string

const (
	TypeAll    FeedType = "all"
	TypeImages FeedType = "images"
	TypeVideos FeedType = "videos"
	TypeText   FeedType = "text"
)

// FeedQuery carries feed fetch parameters
type FeedQuery struct {
	Sort     FeedSort
	Type     FeedType
	AuthorID string
	Page     int
	PageSize int
}

// GetPosts fetches the community feed
func GetPosts(ctx context.Context, q FeedQuery) (*PostListResponse, error) {
	logger.Debug("Fetching posts", "sort", string(q.Sort), "type", string(q.Type), "page", q.Page)

	params := map[string]string{
		"sort":      string(q.Sort),
		"type":      string(q.Type),
		"page":      fmt.Sprintf("%d", q.Page),
		"page_size": fmt.Sprintf("%d", q.PageSize),
	}
	if q.AuthorID != "" {
		params["author_id"] = q.AuthorID
	}

	var response PostListResponse

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&response).
		Get("/api/v1/posts")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	return &response, nil
}
