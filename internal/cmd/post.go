package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/touchgrass/cli/pkg/service"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Interact with feed posts",
}

var postShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show a post and its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewPostService().Show(context.Background(), args[0])
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Toggle your like on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewPostService().Like(context.Background(), args[0])
	},
}

var postCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <text...>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		body := strings.Join(args[1:], " ")
		return service.NewPostService().Comment(context.Background(), args[0], body)
	},
}

func init() {
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postCommentCmd)
}
