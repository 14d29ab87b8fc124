package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/nhath/foodlog/internal/logging"
)

// Config represents the application configuration
type Config struct {
	LogLevel string       `toml:"log_level"`
	Store    StoreConfig  `toml:"store"`
	Search   SearchConfig `toml:"search"`
	Tags     TagsConfig   `toml:"tags"`
	Cache    CacheConfig  `toml:"cache"`
	Theme    Theme        `toml:"theme_colors"`
	Keys     KeyMap       `toml:"keys"`
}

// SearchConfig tunes the food and tag pickers.
type SearchConfig struct {
	FoodDelayMS     int `toml:"food_delay_ms"`
	TagDelayMS      int `toml:"tag_delay_ms"`
	MaxVisible      int `toml:"max_visible"`
	LookupTimeoutMS int `toml:"lookup_timeout_ms"`
	LookupLimit     int `toml:"lookup_limit"`
}

func (s SearchConfig) FoodDelay() time.Duration {
	return time.Duration(s.FoodDelayMS) * time.Millisecond
}

func (s SearchConfig) TagDelay() time.Duration {
	return time.Duration(s.TagDelayMS) * time.Millisecond
}

func (s SearchConfig) LookupTimeout() time.Duration {
	return time.Duration(s.LookupTimeoutMS) * time.Millisecond
}

// TagsConfig lists the namespaces offered before one is typed.
type TagsConfig struct {
	Namespaces []string `toml:"namespaces"`
}

// CacheConfig selects the tag lookup cache.
type CacheConfig struct {
	Backend       string `toml:"backend"` // memory, redis, none
	TTLSeconds    int    `toml:"ttl_seconds"`
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Exit    []string `toml:"exit"`
	Up      []string `toml:"up"`
	Down    []string `toml:"down"`
	AddFood []string `toml:"add_food"`
	AddTag  []string `toml:"add_tag"`
	Delete  []string `toml:"delete"`
	Refresh []string `toml:"refresh"`
	Focus   []string `toml:"focus"`
	Dismiss []string `toml:"dismiss"`
	PrevDay []string `toml:"prev_day"`
	NextDay []string `toml:"next_day"`
	Help    []string `toml:"help"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Search: SearchConfig{
			FoodDelayMS:     300,
			TagDelayMS:      400,
			MaxVisible:      6,
			LookupTimeoutMS: 3000,
			LookupLimit:     20,
		},
		Tags: TagsConfig{
			Namespaces: []string{"meal", "mood", "place", "diet", "symptom"},
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTLSeconds: 300,
		},
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
		},
		Keys: KeyMap{
			Exit:    []string{"ctrl+c", "q"},
			Up:      []string{"k", "up"},
			Down:    []string{"j", "down"},
			AddFood: []string{"a"},
			AddTag:  []string{"t"},
			Delete:  []string{"d"},
			Refresh: []string{"r"},
			Focus:   []string{"tab"},
			Dismiss: []string{"esc"},
			PrevDay: []string{"h", "left"},
			NextDay: []string{"l", "right"},
			Help:    []string{"?"},
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("foodlog/config.toml")
}

// LoadFrom loads the config at path, creating it with defaults on first run.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		cfg := DefaultConfig()
		if err := cfg.SaveTo(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Populate defaults for missing fields (migration)
	if cfg.backfill(DefaultConfig()) {
		// Save updated config to persist defaults so user can see/edit them
		if err := cfg.SaveTo(path); err != nil {
			logging.Warn("could not persist config defaults", "path", path, "error", err)
		}
	}

	cfg.loadPassword(path)

	return &cfg, nil
}

// loadPassword decrypts the stored password. A plaintext password written by
// hand is accepted and saved back encrypted.
func (c *Config) loadPassword(path string) {
	stored := c.Store.EncryptedPassword
	if stored == "" {
		return
	}

	if _, err := hex.DecodeString(stored); err != nil {
		c.Store.Password = stored
		c.Store.EncryptedPassword = ""
		if err := c.SaveTo(path); err != nil {
			logging.Warn("could not encrypt store password", "path", path, "error", err)
		}
		return
	}

	key, err := masterKey()
	if err != nil {
		logging.Warn("keyring unavailable", "error", err)
		return
	}
	decrypted, err := Decrypt(stored, key)
	if err != nil {
		logging.Warn("store password could not be decrypted", "error", err)
		return
	}
	c.Store.Password = decrypted
}

// backfill copies defaults into empty sections and reports whether anything
// changed.
func (c *Config) backfill(d *Config) bool {
	updated := false

	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
		updated = true
	}
	if c.Store.Driver == "" {
		c.Store.Driver = d.Store.Driver
		updated = true
	}
	if c.Search.FoodDelayMS <= 0 {
		c.Search.FoodDelayMS = d.Search.FoodDelayMS
		updated = true
	}
	if c.Search.TagDelayMS <= 0 {
		c.Search.TagDelayMS = d.Search.TagDelayMS
		updated = true
	}
	if c.Search.MaxVisible <= 0 {
		c.Search.MaxVisible = d.Search.MaxVisible
		updated = true
	}
	if c.Search.LookupTimeoutMS <= 0 {
		c.Search.LookupTimeoutMS = d.Search.LookupTimeoutMS
		updated = true
	}
	if c.Search.LookupLimit <= 0 {
		c.Search.LookupLimit = d.Search.LookupLimit
		updated = true
	}
	if c.Tags.Namespaces == nil {
		c.Tags.Namespaces = d.Tags.Namespaces
		updated = true
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = d.Cache.Backend
		updated = true
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = d.Cache.TTLSeconds
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = d.Theme
		updated = true
	}
	if len(c.Keys.Exit) == 0 {
		c.Keys = d.Keys
		updated = true
	}
	return updated
}

// SaveTo writes the config to path. The store password is encrypted first;
// when that fails nothing is written.
func (c *Config) SaveTo(path string) error {
	if c.Store.Password != "" {
		encrypted, err := encryptPassword(c.Store.Password)
		if err != nil {
			return fmt.Errorf("failed to encrypt store password: %w", err)
		}
		c.Store.EncryptedPassword = encrypted
	}

	// Ensure directory exists with secure permissions
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
