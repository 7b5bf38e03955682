package cmd

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/touchgrass/cli/pkg/bookmarks"
	"github.com/touchgrass/cli/pkg/config"
	"github.com/touchgrass/cli/pkg/output"
)

var demoCount int

// demoCmd seeds the local bookmark store with fake data so the bookmark
// commands can be exercised without a backend
var demoCmd = &cobra.Command{
	Use:    "demo",
	Short:  "Seed local bookmarks with fake data",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := bookmarks.NewStore(bookmarks.NewFilePersister(config.GetBookmarksPath()))

		types := []bookmarks.EntityType{
			bookmarks.TypeChallenge,
			bookmarks.TypePost,
			bookmarks.TypeArticle,
			bookmarks.TypeVideo,
		}

		for i := 0; i < demoCount; i++ {
			store.Add(bookmarks.Record{
				ID:      uuid.New().String(),
				Type:    types[i%len(types)],
				Title:   gofakeit.Sentence(5),
				SavedAt: time.Now().Add(-time.Duration(gofakeit.Number(0, 720)) * time.Hour),
			})
		}

		output.PrintSuccess("Seeded %d bookmarks", demoCount)
		return nil
	},
}

func init() {
	demoCmd.Flags().IntVar(&demoCount, "count", 10, "Number of bookmarks to create")
}
