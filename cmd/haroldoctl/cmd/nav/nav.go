package nav

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/config"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

var (
	roleFlag   string
	jsonOutput bool
)

// NavCmd prints the navigation entries for the logged-in role, or for --role.
var NavCmd = &cobra.Command{
	Use:   "nav",
	Short: "Show the navigation menu for a role",
	Long: `Prints the navigation entries available to the current session's role.
Use --role (administrator, client, adviser or 1, 2, 3) to preview another role.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := resolveRole(cmd)
		if err != nil {
			return err
		}

		items := sdk.NavigationFor(role)
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		if len(items) == 0 {
			pterm.Warning.Printf("No navigation available for role %s\n", role)
			return nil
		}
		table := pterm.TableData{{"PATH", "LABEL", "ICON"}}
		for _, item := range items {
			table = append(table, []string{item.Path, item.Label, item.Icon})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	},
}

func resolveRole(cmd *cobra.Command) (sdk.Role, error) {
	if cmd.Flags().Changed("role") {
		role, err := sdk.ParseRole(roleFlag)
		if err != nil {
			return sdk.RoleNone, fmt.Errorf("invalid --role: %w", err)
		}
		return role, nil
	}

	gc := config.MustFromContext(cmd.Context())
	session, err := gc.ClientProvider.Session(cmd.Context())
	if err != nil {
		return sdk.RoleNone, err
	}
	if !session.Authenticated() {
		return sdk.RoleNone, fmt.Errorf("not logged in (use --role to preview a menu)")
	}
	return session.Current().Role, nil
}

func init() {
	NavCmd.Flags().StringVar(&roleFlag, "role", "", "Role to preview instead of the session's role")
	NavCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
}
