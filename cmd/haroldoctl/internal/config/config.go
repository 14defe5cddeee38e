package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/client"
)

const (
	// EnvPrefix prefixes every environment override (HAROLDO_API_URL, ...).
	EnvPrefix = "HAROLDO"
	// DefaultAPIURL is the local development endpoint of the consulting API.
	DefaultAPIURL = "http://localhost:8080"
	// DirName is the per-user directory holding config and credentials.
	DirName = ".haroldo"
)

// Config holds the haroldoctl settings resolved from defaults, the optional
// config file and HAROLDO_* environment variables (highest precedence).
type Config struct {
	APIURL    string `mapstructure:"api_url"`
	Store     string `mapstructure:"store"`
	StorePath string `mapstructure:"store_path"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	UIAddr    string `mapstructure:"ui_addr"`
}

// Dir returns ~/.haroldo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Load reads configuration. When configPath is empty, ~/.haroldo/config.yaml is used
// if it exists; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%s_API_URL must not be empty", EnvPrefix)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	switch cfg.Store {
	case "file", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unsupported store %q (expected file, sqlite or memory)", cfg.Store)
	}

	if strings.HasPrefix(cfg.StorePath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to expand store path: %w", err)
		}
		cfg.StorePath = filepath.Join(home, cfg.StorePath[1:])
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("store", "file")
	v.SetDefault("store_path", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("ui_addr", "127.0.0.1:5180")
}

type contextKey string

const configKey contextKey = "haroldoctl-config"

// GlobalConfig holds shared state for all haroldoctl commands.
// It is injected into the cobra command context by the root command's
// PersistentPreRunE hook and consumed by all subcommands.
type GlobalConfig struct {
	*Config
	ClientProvider *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// Only use it in RunE functions of commands below the root command.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("haroldoctl: config not found in context - this is a bug in haroldoctl")
	}
	return cfg
}
