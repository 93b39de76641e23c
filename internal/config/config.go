package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/agent-racer/authsync/internal/client"
	"github.com/agent-racer/authsync/internal/scope"
	"github.com/agent-racer/authsync/internal/session"
)

type Config struct {
	RefetchInterval time.Duration `yaml:"refetch_interval" env:"AUTHSYNC_REFETCH_INTERVAL"`
	RefetchOnFocus  bool          `yaml:"refetch_on_focus" env:"AUTHSYNC_REFETCH_ON_FOCUS"`
	Client          ClientConfig  `yaml:"client" envPrefix:"AUTHSYNC_CLIENT_"`
	Display         DisplayConfig `yaml:"display" envPrefix:"AUTHSYNC_DISPLAY_"`
}

// DisplayConfig controls what the session detail overlay reveals.
type DisplayConfig struct {
	MaskIDs  bool     `yaml:"mask_ids" env:"MASK_IDS"`
	MaskKeys []string `yaml:"mask_keys" env:"MASK_KEYS" envSeparator:","`
}

// ClientConfig seeds the in-memory auth client used by the terminal host.
type ClientConfig struct {
	Status         client.Status  `yaml:"status" env:"STATUS"`
	Session        client.Session `yaml:"session"`
	CachedSession  client.Session `yaml:"cached_session"`
	RefreshLatency time.Duration  `yaml:"refresh_latency" env:"REFRESH_LATENCY"`
	SessionTTL     time.Duration  `yaml:"session_ttl" env:"SESSION_TTL"`
	FailRefresh    string         `yaml:"fail_refresh" env:"FAIL_REFRESH"`
}

func defaultConfig() *Config {
	return &Config{
		RefetchOnFocus: true,
		Client: ClientConfig{
			Status:     client.StatusInitial,
			SessionTTL: 30 * time.Minute,
		},
		Display: DisplayConfig{
			MaskKeys: []string{"*token*", "*secret*", "password"},
		},
	}
}

// Load reads path over the defaults and then applies AUTHSYNC_* environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults (still
// subject to environment overrides).
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = defaultConfig()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	if c.RefetchInterval < 0 {
		return fmt.Errorf("refetch_interval must not be negative, got %s", c.RefetchInterval)
	}
	if c.Client.RefreshLatency < 0 {
		return fmt.Errorf("client.refresh_latency must not be negative, got %s", c.Client.RefreshLatency)
	}
	if c.Client.SessionTTL <= 0 {
		return fmt.Errorf("client.session_ttl must be positive, got %s", c.Client.SessionTTL)
	}
	return nil
}

// ScopeOptions converts the live-tunable settings into scope options.
func (c *Config) ScopeOptions() []scope.Option {
	return []scope.Option{
		scope.WithInterval(c.RefetchInterval),
		scope.WithRefetchOnFocus(c.RefetchOnFocus),
	}
}

// Redactor builds the session redactor for the detail overlay.
func (d DisplayConfig) Redactor() session.Redactor {
	return session.Redactor{
		MaskIDs: d.MaskIDs,
		Keys:    append([]string(nil), d.MaskKeys...),
	}
}

// NewClient builds the in-memory auth client described by the client section.
func (c *Config) NewClient() *client.Memory {
	cc := c.Client
	opts := []client.MemoryOption{
		client.WithLatency(cc.RefreshLatency),
		client.WithSessionTTL(cc.SessionTTL),
	}
	if cc.Session != nil {
		opts = append(opts, client.WithSession(cc.Session))
	}
	// An explicit status wins over the one implied by a seeded session.
	if cc.Status != client.StatusInitial {
		opts = append(opts, client.WithStatus(cc.Status))
	}
	if cc.CachedSession != nil {
		opts = append(opts, client.WithCachedSession(cc.CachedSession))
	}

	m := client.NewMemory(opts...)
	if cc.FailRefresh != "" {
		m.SetRefreshError(errors.New(cc.FailRefresh))
	}
	return m
}
