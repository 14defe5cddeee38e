package auth

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/config"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		id := s.Current()
		if !id.Authenticated() {
			return errors.New("not logged in")
		}

		pterm.DefaultSection.Println("Authentication Status")
		pterm.Info.Printf("Server: %s\n", cfg.APIURL)
		pterm.Info.Printf("Credential store: %s\n", cfg.Store)
		pterm.Info.Printf("Role: %s\n", id.Role)

		if claims, ok := tokenClaims(id.Token); ok {
			pterm.DefaultSection.Println("Token Claims (unverified)")
			printClaims(claims)
		}

		items := sdk.NavigationFor(id.Role)
		if len(items) == 0 {
			pterm.Warning.Println("No navigation available for this role.")
			return nil
		}
		pterm.Info.Printf("Navigation entries: %d\n", len(items))
		return nil
	},
}

// tokenClaims decodes the token's claims without verifying the signature.
// Opaque tokens report ok=false.
func tokenClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func printClaims(claims jwt.MapClaims) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fmt.Fprintf(w, "Subject:\t%s\n", sub)
	}
	if iss, err := claims.GetIssuer(); err == nil && iss != "" {
		fmt.Fprintf(w, "Issuer:\t%s\n", iss)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		fmt.Fprintf(w, "Issued at:\t%s\n", iat.Format(time.RFC1123))
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		state := "valid"
		if time.Now().After(exp.Time) {
			state = "expired, the server will reject it"
		}
		fmt.Fprintf(w, "Expires at:\t%s (%s)\n", exp.Format(time.RFC1123), state)
	}
}
