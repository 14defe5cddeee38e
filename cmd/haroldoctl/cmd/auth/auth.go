package auth

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/config"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

// NonInteractive controls whether interactive prompts are disabled
var NonInteractive bool

// AuthCmd is the parent command for auth operations
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Commands for logging in, registering and inspecting the stored session.`,
}

func init() {
	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(signupCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
}

// SetNonInteractive sets the non-interactive mode for all auth commands
func SetNonInteractive(value bool) {
	NonInteractive = value
}

func authClient(ctx context.Context) (*sdk.AuthClient, error) {
	gc, ok := config.FromContext(ctx)
	if !ok || gc.ClientProvider == nil {
		return nil, fmt.Errorf("client provider not configured")
	}
	return gc.ClientProvider.AuthClient(ctx)
}

func session(ctx context.Context) (*sdk.Session, error) {
	gc, ok := config.FromContext(ctx)
	if !ok || gc.ClientProvider == nil {
		return nil, fmt.Errorf("client provider not configured")
	}
	return gc.ClientProvider.Session(ctx)
}
