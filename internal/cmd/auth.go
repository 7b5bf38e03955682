package cmd

import (
	"github.com/spf13/cobra"

	"github.com/touchgrass/cli/pkg/service"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage authentication with Touch Grass",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new Touch Grass account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Register()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Touch Grass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Login()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from Touch Grass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Logout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display the current authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Whoami()
	},
}

func init() {
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
}
