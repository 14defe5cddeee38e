package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/cmd/auth"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/cmd/nav"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/cmd/request"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/cmd/ui"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/client"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/config"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/logging"
)

var (
	serverURL      string
	configPath     string
	storeKind      string
	logLevel       string
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "haroldoctl",
	Short: "Haroldo CLI - consulting platform client",
	Long: `haroldoctl is the command-line client for the Haroldo consulting platform.
Use it to log in, inspect your session, call the API with your credentials
and run the local web shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv(config.EnvPrefix+"_NON_INTERACTIVE") == "1" {
			nonInteractive = true
		}
		auth.SetNonInteractive(nonInteractive)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		// Flags win over file and environment
		if cmd.Flags().Changed("server") {
			cfg.APIURL = serverURL
		}
		if cmd.Flags().Changed("store") {
			cfg.Store = storeKind
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

		provider := client.NewProvider(client.Options{
			ServerURL: cfg.APIURL,
			Store:     cfg.Store,
			StorePath: cfg.StorePath,
			Logger:    logger,
		})
		if token := os.Getenv(config.EnvPrefix + "_TOKEN"); token != "" {
			logger.Debug("using ephemeral bearer token from environment")
			provider.SetBearerToken(token)
		}

		cmd.SetContext(config.InjectConfig(cmd.Context(), &config.GlobalConfig{
			Config:         cfg,
			ClientProvider: provider,
		}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if gc, ok := config.FromContext(cmd.Context()); ok {
			return gc.ClientProvider.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", config.DefaultAPIURL, "Haroldo API server URL (also HAROLDO_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.haroldo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "file", "Credential store: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via HAROLDO_NON_INTERACTIVE=1)")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(nav.NavCmd)
	rootCmd.AddCommand(request.RequestCmd)
	rootCmd.AddCommand(ui.UICmd)
}
