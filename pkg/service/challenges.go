package service

import (
	"context"
	"fmt"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/output"
)

// ChallengeService renders challenges and the viewer's progress
type ChallengeService struct{}

// NewChallengeService creates a new challenge service
func NewChallengeService() *ChallengeService {
	return &ChallengeService{}
}

// Show renders one challenge
func (s *ChallengeService) Show(ctx context.Context, challengeID string) error {
	ch, err := api.GetChallenge(ctx, challengeID)
	if err != nil {
		output.PrintError("Challenge not found: %v", err)
		return err
	}

	return output.PrintRecord("Challenge", map[string]interface{}{
		"ID":          ch.ID,
		"Title":       ch.Title,
		"Description": ch.Description,
		"Category":    ch.Category,
		"XP":          ch.XP,
		"Completions": ch.CompletionCount,
	})
}

// Stats renders the viewer's XP and streak summary
func (s *ChallengeService) Stats(ctx context.Context) error {
	stats, err := api.GetMyStats(ctx)
	if err != nil {
		output.PrintError("Failed to fetch stats: %v", err)
		return err
	}

	return output.PrintRecord("Your stats", map[string]interface{}{
		"XP":             stats.XP,
		"Level":          stats.Level,
		"Streak":         fmt.Sprintf("%d days", stats.Streak),
		"Longest streak": fmt.Sprintf("%d days", stats.LongestStreak),
		"Completed":      stats.ChallengesCompleted,
	})
}

// Leaderboard renders the XP leaderboard for a period
func (s *ChallengeService) Leaderboard(ctx context.Context, period string) error {
	lb, err := api.GetLeaderboard(ctx, period)
	if err != nil {
		output.PrintError("Failed to fetch leaderboard: %v", err)
		return err
	}

	rows := make([][]string, 0, len(lb.Entries))
	for _, e := range lb.Entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Rank),
			e.Username,
			fmt.Sprintf("%d", e.XP),
			fmt.Sprintf("%d", e.Streak),
		})
	}
	return output.PrintList(fmt.Sprintf("Leaderboard (%s)", lb.Period), rows,
		[]string{"Rank", "User", "XP", "Streak"})
}
