package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/touchgrass/cli/pkg/service"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage saved challenges, posts and learn content",
	Long: `Bookmarks are stored locally. Listing them reconciles the
collection against the backend once per session: deleted entities are
removed and corrupted titles are repaired.`,
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <type> <id>",
	Short: "Bookmark a challenge, post, article or video",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewBookmarkService().Add(context.Background(), args[0], args[1])
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBookmarkService().Remove(args[0])
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewBookmarkService().List(context.Background())
	},
}

var bookmarkClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all bookmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBookmarkService().Clear()
	},
}

var bookmarkValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Reconcile bookmarks against the backend now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewBookmarkService().Validate(context.Background())
	},
}

func init() {
	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkRemoveCmd)
	bookmarkCmd.AddCommand(bookmarkListCmd)
	bookmarkCmd.AddCommand(bookmarkClearCmd)
	bookmarkCmd.AddCommand(bookmarkValidateCmd)
}
