package api

import (
	"context"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/touchgrass/cli/pkg/client"
	"github.com/touchgrass/cli/pkg/logger"
)

// ToggleLike toggles the viewer's like on a post.
// The remote side is a delete-if-exists/insert-if-absent toggle; callers are
// expected to serialize toggles per post id.
func ToggleLike(ctx context.Context, postID string) (*LikeResponse, error) {
	logger.Debug("Toggling like", "post_id", postID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Post(fmt.Sprintf("/api/v1/posts/%s/like", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var like LikeResponse
	if err := json.Unmarshal(resp.Body(), &like); err != nil {
		return nil, err
	}

	return &like, nil
}

// CreateComment posts a comment on a post
func CreateComment(ctx context.Context, postID, body string) (*Comment, error) {
	logger.Debug("Creating comment", "post_id", postID)

	var response struct {
		Comment Comment `json:"comment"`
	}

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"body": body}).
		SetResult(&response).
		Post(fmt.Sprintf("/api/v1/posts/%s/comments", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	return &response.Comment, nil
}

// GetComments retrieves comments on a post
func GetComments(ctx context.Context, postID string, page, pageSize int) (*CommentListResponse, error) {
	logger.Debug("Fetching comments", "post_id", postID, "page", page)

	var response CommentListResponse

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&response).
		Get(fmt.Sprintf("/api/v1/posts/%s/comments", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	return &response, nil
}
