package api

import (
	"context"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/touchgrass/cli/pkg/client"
	"github.com/touchgrass/cli/pkg/logger"
)

// GetChallenge fetches a challenge by id
func GetChallenge(ctx context.Context, challengeID string) (*Challenge, error) {
	logger.Debug("Fetching challenge", "challenge_id", challengeID)

	var response struct {
		Challenge Challenge `json:"challenge"`
	}

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&response).
		Get(fmt.Sprintf("/api/v1/challenges/%s", challengeID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	return &response.Challenge, nil
}

// GetPost fetches a post by id
func GetPost(ctx context.Context, postID string) (*Post, error) {
	logger.Debug("Fetching post", "post_id", postID)

	var response struct {
		Post Post `json:"post"`
	}

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&response).
		Get(fmt.Sprintf("/api/v1/posts/%s", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	return &response.Post, nil
}

// GetContentItem fetches a learn-section content item by id
func GetContentItem(ctx context.Context, contentID string) (*ContentItem, error) {
	logger.Debug("Fetching content item", "content_id", contentID)

	var response struct {
		Content ContentItem `json:"content"`
	}

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&response).
		Get(fmt.Sprintf("/api/v1/content/%s", contentID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	return &response.Content, nil
}

// GetFollowing returns the ids of users the viewer follows
func GetFollowing(ctx context.Context) ([]string, error) {
	logger.Debug("Fetching following list")

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Get("/api/v1/users/me/following")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var following FollowingResponse
	if err := json.Unmarshal(resp.Body(), &following); err != nil {
		return nil, err
	}

	return following.UserIDs, nil
}

// GetLeaderboard fetches the XP leaderboard for a period ("week", "month", "all")
func GetLeaderboard(ctx context.Context, period string) (*LeaderboardResponse, error) {
	logger.Debug("Fetching leaderboard", "period", period)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParam("period", period).
		Get("/api/v1/leaderboard")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var leaderboard LeaderboardResponse
	if err := json.Unmarshal(resp.Body(), &leaderboard); err != nil {
		return nil, err
	}

	return &leaderboard, nil
}

// GetMyStats fetches the viewer's XP/streak summary
func GetMyStats(ctx context.Context) (*StatsResponse, error) {
	logger.Debug("Fetching viewer stats")

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Get("/api/v1/users/me/stats")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var stats StatsResponse
	if err := json.Unmarshal(resp.Body(), &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
