package auth

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

var (
	signupEmail      string
	signupPassword   string
	signupDocumentID string
	signupLegalName  string
	signupClientType string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a client account",
	Long: `Registers a new client account. The session is not changed; run
"haroldoctl auth login" afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch sdk.ClientType(signupClientType) {
		case sdk.ClientTypeIndividual, sdk.ClientTypeCompany:
		default:
			return fmt.Errorf("invalid --client-type %q (expected individual or company)", signupClientType)
		}

		email, err := promptValue(signupEmail, "Email", false)
		if err != nil {
			return err
		}
		password, err := promptValue(signupPassword, "Password", true)
		if err != nil {
			return err
		}

		client, err := authClient(cmd.Context())
		if err != nil {
			return err
		}

		err = client.Register(cmd.Context(), sdk.RegisterInput{
			Email:      email,
			Password:   password,
			DocumentID: signupDocumentID,
			LegalName:  signupLegalName,
			ClientType: sdk.ClientType(signupClientType),
		})
		if err != nil {
			if errors.Is(err, sdk.ErrAlreadyRegistered) || errors.Is(err, sdk.ErrRequestFailed) {
				return errors.New(sdk.UserMessage(err))
			}
			return err
		}

		pterm.Success.Printf("Account created for %s. You can log in now.\n", email)
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password")
	signupCmd.Flags().StringVar(&signupDocumentID, "document-id", "", "Tax or identity document number")
	signupCmd.Flags().StringVar(&signupLegalName, "legal-name", "", "Legal name of the person or company")
	signupCmd.Flags().StringVar(&signupClientType, "client-type", string(sdk.ClientTypeIndividual), "individual or company")
}
