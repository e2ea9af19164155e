// Package config loads application settings from an optional YAML file and
// the environment. Environment variables take the HABITTRACK_ prefix, e.g.
// HABITTRACK_ADDR or HABITTRACK_OIDC_CLIENT_ID.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// OIDCConfig holds the settings for single sign-on via OpenID Connect.
type OIDCConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	IssuerURL    string `mapstructure:"issuer_url" yaml:"issuer_url"`
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url" yaml:"redirect_url"`
}

// Config is the top-level application configuration.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `mapstructure:"addr" yaml:"addr"`

	// DatabaseURL is the PostgreSQL connection string. When empty the
	// server falls back to the in-memory store.
	DatabaseURL string `mapstructure:"database_url" yaml:"database_url"`

	// WebDir is the directory with the static frontend assets.
	WebDir string `mapstructure:"web_dir" yaml:"web_dir"`

	// Timezone is the IANA name of the zone that decides day boundaries.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	// PollIntervalSec is how often (in seconds) live subscriptions poll
	// for changes.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	OIDC OIDCConfig `mapstructure:"oidc" yaml:"oidc"`
}

func defaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		WebDir:          "web",
		Timezone:        "UTC",
		PollIntervalSec: 2,
	}
}

// Load reads configuration from the given YAML file path using Viper,
// layering environment overrides on top. A missing file is not an error;
// defaults and the environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("web_dir", "web")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("poll_interval_sec", 2)
	v.SetDefault("oidc.enabled", false)

	v.SetEnvPrefix("habittrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(*os.PathError); !ok {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return nil, fmt.Errorf("reading config %s: %w", path, err)
				}
			}
		}
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.OIDC.Enabled {
		if cfg.OIDC.IssuerURL == "" || cfg.OIDC.ClientID == "" || cfg.OIDC.RedirectURL == "" {
			return nil, fmt.Errorf("oidc enabled but issuer_url, client_id or redirect_url missing")
		}
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to UTC when the
// name is empty or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PollInterval returns the subscription polling interval as a duration.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSec <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollIntervalSec) * time.Second
}
