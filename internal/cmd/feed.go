package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/logger"
	"github.com/touchgrass/cli/pkg/service"
)

var (
	feedSort  string
	feedType  string
	feedWatch bool
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the community feed",
	Long:  "Browse posts from the Touch Grass community. Use --watch to keep the feed updating live.",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := service.RequireAuth()
		if err != nil {
			return err
		}

		sort, err := service.ParseSort(feedSort)
		if err != nil {
			return err
		}
		ftype, err := service.ParseType(feedType)
		if err != nil {
			return err
		}

		ctx := context.Background()

		var following []string
		if sort == api.SortFollowing {
			following, err = api.GetFollowing(ctx)
			if err != nil {
				logger.Warn("Failed to load following list", "error", err)
			}
		}

		svc := service.NewFeedService(sort, ftype, creds.UserID, following)
		if feedWatch {
			return svc.Watch(ctx, creds.AccessToken)
		}
		return svc.Show(ctx)
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedSort, "sort", "newest", "Sort order: newest, top, following")
	feedCmd.Flags().StringVar(&feedType, "type", "all", "Media filter: all, images, videos, text")
	feedCmd.Flags().BoolVar(&feedWatch, "watch", false, "Keep the feed updating from the realtime channel")
}
