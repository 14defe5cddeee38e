package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Haroldo",
	Long: `Logs in with email and password and stores the returned token and role.

The password can also be provided through HAROLDO_PASSWORD. Missing values
are prompted for unless --non-interactive is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := promptValue(loginEmail, "Email", false)
		if err != nil {
			return err
		}
		password := loginPassword
		if password == "" {
			password = os.Getenv("HAROLDO_PASSWORD")
		}
		password, err = promptValue(password, "Password", true)
		if err != nil {
			return err
		}

		client, err := authClient(cmd.Context())
		if err != nil {
			return err
		}

		meta, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			if errors.Is(err, sdk.ErrInvalidCredentials) || errors.Is(err, sdk.ErrRequestFailed) {
				return errors.New(sdk.UserMessage(err))
			}
			return err
		}

		pterm.Success.Printf("Logged in as %s\n", meta.Email)
		if meta.Role == sdk.RoleNone {
			pterm.Warning.Println("The server returned an unrecognised role; no navigation is available.")
			return nil
		}
		fmt.Printf("Role: %s\n", meta.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prefer HAROLDO_PASSWORD)")
}
