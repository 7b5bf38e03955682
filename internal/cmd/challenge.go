package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/touchgrass/cli/pkg/service"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Browse challenges",
}

var challengeShowCmd = &cobra.Command{
	Use:   "show <challenge-id>",
	Short: "Show a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewChallengeService().Show(context.Background(), args[0])
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your XP, level and streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewChallengeService().Stats(context.Background())
	},
}

var leaderboardPeriod string

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the XP leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireAuth(); err != nil {
			return err
		}
		return service.NewChallengeService().Leaderboard(context.Background(), leaderboardPeriod)
	},
}

func init() {
	challengeCmd.AddCommand(challengeShowCmd)
	leaderboardCmd.Flags().StringVar(&leaderboardPeriod, "period", "week", "Leaderboard period: week, month, all")
}
