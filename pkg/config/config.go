// Package config loads the server configuration.
//
// Config file locations (priority order):
//  1. $GRAPHKIT_CONFIG
//  2. ./graphkit.yaml
//  3. ~/.config/graphkit/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osintdash/graphkit/pkg/expand"
	"github.com/osintdash/graphkit/pkg/layout"
)

// Duration is a yaml-parseable wrapper around time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the wrapped standard duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Layout    LayoutConfig    `yaml:"layout"`
	Providers ProvidersConfig `yaml:"providers"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr" validate:"required"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// LayoutConfig controls the automatic circular layout.
type LayoutConfig struct {
	Radius float64 `yaml:"radius" validate:"omitempty,gt=0"`
}

// ProvidersConfig selects upstream endpoints for the transform providers.
// Empty endpoints fall back to the public services baked into each adapter.
type ProvidersConfig struct {
	Timeout      Duration `yaml:"timeout"`
	DoH          string        `yaml:"doh"`
	RDAP         string        `yaml:"rdap"`
	CrtSh        string        `yaml:"crtsh"`
	HackerTarget string        `yaml:"hackertarget"`
	IPAPI        string        `yaml:"ipapi"`
	IPWhois      string        `yaml:"ipwhois"`
	InternetDB   string        `yaml:"internetdb"`
	XposedOrNot  string        `yaml:"xposedornot"`
	Psbdmp       string        `yaml:"psbdmp"`
	ThreatFox    string        `yaml:"threatfox"`
	URLhaus      string        `yaml:"urlhaus"`
	Darkweb      string        `yaml:"darkweb"`
	Telegram     string        `yaml:"telegram"`
	EnableNmap   bool          `yaml:"enable_nmap"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, path, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, path, nil
}

// FindConfigPath returns the first config file that exists, or "".
func FindConfigPath() string {
	if path := os.Getenv("GRAPHKIT_CONFIG"); path != "" {
		return path
	}

	candidates := []string{"./graphkit.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "graphkit", "config.yaml"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8088"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Layout.Radius == 0 {
		c.Layout.Radius = layout.DefaultRadius
	}
	if c.Providers.Timeout == 0 {
		c.Providers.Timeout = Duration(15 * time.Second)
	}
}

// ProviderSettings maps the provider section onto the expander's settings.
func (c *Config) ProviderSettings() expand.Settings {
	return expand.Settings{
		Timeout:              c.Providers.Timeout.Duration(),
		DoHEndpoint:          c.Providers.DoH,
		RDAPEndpoint:         c.Providers.RDAP,
		CrtShEndpoint:        c.Providers.CrtSh,
		HackerTargetEndpoint: c.Providers.HackerTarget,
		IPAPIEndpoint:        c.Providers.IPAPI,
		IPWhoisEndpoint:      c.Providers.IPWhois,
		InternetDBEndpoint:   c.Providers.InternetDB,
		XposedOrNotEndpoint:  c.Providers.XposedOrNot,
		PsbdmpEndpoint:       c.Providers.Psbdmp,
		ThreatFoxEndpoint:    c.Providers.ThreatFox,
		URLhausEndpoint:      c.Providers.URLhaus,
		DarkwebEndpoint:      c.Providers.Darkweb,
		TelegramEndpoint:     c.Providers.Telegram,
		EnableNmap:           c.Providers.EnableNmap,
	}
}
