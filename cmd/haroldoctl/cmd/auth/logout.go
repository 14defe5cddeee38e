package auth

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from Haroldo",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authClient(cmd.Context())
		if err != nil {
			return err
		}

		if err := client.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("failed to delete credentials: %w", err)
		}

		fmt.Println("Logged out successfully")
		return nil
	},
}
