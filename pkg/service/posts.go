package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/interactions"
	"github.com/touchgrass/cli/pkg/notify"
	"github.com/touchgrass/cli/pkg/output"
)

// PostService handles single-post actions
type PostService struct {
	likes    *interactions.Likes
	comments *interactions.Comments
}

// NewPostService creates a post service with console notifications
func NewPostService() *PostService {
	return &PostService{
		likes:    interactions.NewLikes(nil, notify.Console{}),
		comments: interactions.NewComments(nil, notify.Console{}),
	}
}

// Like toggles the viewer's like on a post
func (s *PostService) Like(ctx context.Context, postID string) error {
	post, err := api.GetPost(ctx, postID)
	if err != nil {
		output.PrintError("Post not found: %v", err)
		return err
	}
	s.likes.Seed(*post)

	if err := s.likes.Toggle(ctx, postID); err != nil {
		if errors.Is(err, interactions.ErrInFlight) {
			return nil
		}
		return err
	}

	st, _ := s.likes.State(postID)
	if st.ViewerLiked {
		output.PrintSuccess("Liked (%d likes)", st.Count)
	} else {
		output.PrintSuccess("Unliked (%d likes)", st.Count)
	}
	return nil
}

// Comment adds a comment to a post
func (s *PostService) Comment(ctx context.Context, postID, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("comment cannot be empty")
	}

	comment, err := s.comments.Add(ctx, postID, body)
	if err != nil {
		if errors.Is(err, interactions.ErrInFlight) {
			return nil
		}
		return err
	}

	output.PrintSuccess("Comment posted (id %s)", comment.ID)
	return nil
}

// Show renders a post with its comments
func (s *PostService) Show(ctx context.Context, postID string) error {
	post, err := api.GetPost(ctx, postID)
	if err != nil {
		output.PrintError("Post not found: %v", err)
		return err
	}

	record := map[string]interface{}{
		"ID":       post.ID,
		"Author":   post.AuthorUsername,
		"Body":     post.Body,
		"Likes":    post.LikeCount,
		"Comments": post.CommentCount,
		"Posted":   post.CreatedAt.Format("Jan 2 2006 15:04"),
	}
	if post.MediaURL != "" {
		record["Media"] = fmt.Sprintf("%s (%s)", post.MediaURL, post.MediaType)
	}
	if post.ChallengeID != "" {
		record["Challenge"] = post.ChallengeID
	}
	if err := output.PrintRecord("Post", record); err != nil {
		return err
	}

	comments, err := api.GetComments(ctx, postID, 1, 20)
	if err != nil || len(comments.Comments) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(comments.Comments))
	for _, c := range comments.Comments {
		rows = append(rows, []string{c.Username, c.Body, c.CreatedAt.Format("Jan 2 15:04")})
	}
	return output.PrintList("Comments", rows, []string{"User", "Comment", "Posted"})
}
