package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/config"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/web"
)

var (
	addr       string
	enableCORS bool
)

// UICmd serves the local web shell.
var UICmd = &cobra.Command{
	Use:   "ui",
	Short: "Serve the local web shell",
	Long: `Starts a local web server with the login and sign-up pages and the
role-based navigation. The shell shares the CLI's credential store, so a login
in either place is visible to the other.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())
		ctx := cmd.Context()
		provider := gc.ClientProvider

		session, err := provider.Session(ctx)
		if err != nil {
			return err
		}
		gateway, err := provider.Gateway(ctx)
		if err != nil {
			return err
		}
		authClient, err := provider.AuthClient(ctx)
		if err != nil {
			return err
		}

		listen := gc.UIAddr
		if cmd.Flags().Changed("addr") {
			listen = addr
		}

		opts := web.RouterOptions{
			Session:   session,
			Gateway:   gateway,
			Auth:      authClient,
			Navigator: provider.Navigator(),
			Logger:    provider.Logger(),
		}
		if enableCORS {
			cors := web.DefaultCORSOptions()
			opts.CORSOptions = &cors
		}

		srv := &http.Server{
			Addr:              listen,
			Handler:           web.NewRouter(opts),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      45 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			pterm.Info.Printf("Web shell listening on http://%s (API %s)\n", listen, gc.APIURL)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			provider.Logger().Info("shutting down web shell", "signal", sig.String())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			pterm.Info.Println("Web shell stopped")
			return nil
		}
	},
}

func init() {
	UICmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from ui_addr, 127.0.0.1:5180)")
	UICmd.Flags().BoolVar(&enableCORS, "cors", false, "Allow the front-end dev server (localhost:5173) to call /api")
}
