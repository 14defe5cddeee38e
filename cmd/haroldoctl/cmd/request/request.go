package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/config"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

var data string

// RequestCmd issues raw API calls through the authorized gateway.
var RequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Call the Haroldo API with the stored credentials",
	Long: `Sends a request through the same gateway the rest of haroldoctl uses:
the stored token is attached and a 401 response logs you out.`,
}

func init() {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		RequestCmd.AddCommand(newMethodCmd(method))
	}
}

func newMethodCmd(method string) *cobra.Command {
	c := &cobra.Command{
		Use:   strings.ToLower(method) + " <path>",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc := config.MustFromContext(cmd.Context())
			gateway, err := gc.ClientProvider.Gateway(cmd.Context())
			if err != nil {
				return err
			}

			body, err := readBody(data)
			if err != nil {
				return err
			}

			err = Run(cmd.Context(), gateway, method, args[0], body, cmd.OutOrStdout())
			if errors.Is(err, sdk.ErrUnauthorized) {
				pterm.Warning.Println(sdk.UserMessage(err))
			}
			return err
		},
	}
	if method == http.MethodPost || method == http.MethodPut {
		c.Flags().StringVarP(&data, "data", "d", "", "JSON body, or @file to read it from a file (@- for stdin)")
	}
	return c
}

// Run sends one request and writes the indented JSON response to w.
func Run(ctx context.Context, gateway *sdk.Gateway, method, path string, body json.RawMessage, w io.Writer) error {
	var in any
	if len(body) > 0 {
		in = body
	}

	var out json.RawMessage
	if err := gateway.Do(ctx, method, path, in, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func readBody(arg string) (json.RawMessage, error) {
	if arg == "" {
		return nil, nil
	}

	raw := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		var err error
		if arg == "@-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
