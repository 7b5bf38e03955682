package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/touchgrass/cli/pkg/config"
	clierrors "github.com/touchgrass/cli/pkg/errors"
	"github.com/touchgrass/cli/pkg/logger"
	"github.com/touchgrass/cli/pkg/output"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "touchgrass",
	Short: "Touch Grass CLI - Get outside, earn XP",
	Long: `Touch Grass CLI is a command-line interface for the Touch Grass
habit platform. Complete real-world challenges, share proof with the
community, and keep your streak alive from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Init(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			os.Exit(1)
		}

		logger.Init(verbose)

		if !output.ValidateOutputFormat(outputFmt) {
			fmt.Fprintf(os.Stderr, "Error: invalid output format %q\n", outputFmt)
			os.Exit(1)
		}
		config.SetString("output.format", outputFmt)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/touchgrass/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(challengeCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}
