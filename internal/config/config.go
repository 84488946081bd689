package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rehearsal-hub/internal/store"
	"rehearsal-hub/internal/ttl"
)

// Cache profile names, one per data domain.
const (
	Users    = "users"
	Messages = "messages"
	Songs    = "songs"
	Media    = "media"
)

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	BufferSize  int    `yaml:"buffer_size"` // entries kept for the health analyzer
	Development bool   `yaml:"development"`
}

type Config struct {
	HTTP   HTTPConfig              `yaml:"http"`
	Log    LogConfig               `yaml:"log"`
	Caches map[string]store.Config `yaml:"caches"`
}

// Default returns the built-in configuration. Each data domain gets its own
// size and TTL profile.
func Default() Config {
	users := store.DefaultConfig()
	users.MaxSize = 200
	users.DefaultTTL = 5 * time.Minute

	messages := store.DefaultConfig()
	messages.MaxSize = 1000
	messages.DefaultTTL = 30 * time.Second
	messages.SweepInterval = 15 * time.Second
	messages.Tiers = ttl.Tiers{
		Blob:       2 * time.Minute,
		Collection: time.Minute,
		Entity:     45 * time.Second,
	}

	songs := store.DefaultConfig()
	songs.DefaultTTL = 2 * time.Minute
	songs.Tiers = ttl.Tiers{
		Blob:       30 * time.Minute,
		Collection: 15 * time.Minute,
		Entity:     10 * time.Minute,
	}

	media := store.DefaultConfig()
	media.MaxSize = 100

	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:      "INFO",
			BufferSize: 1000,
		},
		Caches: map[string]store.Config{
			Users:    users,
			Messages: messages,
			Songs:    songs,
			Media:    media,
		},
	}
}

// Load overlays the YAML file at path on Default. An empty path returns
// the defaults. Cache profiles in the file are merged field by field onto
// the default profile of the same name, or onto store.DefaultConfig for new
// names.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file struct {
		HTTP   HTTPConfig           `yaml:"http"`
		Log    LogConfig            `yaml:"log"`
		Caches map[string]yaml.Node `yaml:"caches"`
	}
	file.HTTP = cfg.HTTP
	file.Log = cfg.Log
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.HTTP = file.HTTP
	cfg.Log = file.Log

	for name, node := range file.Caches {
		profile, ok := cfg.Caches[name]
		if !ok {
			profile = store.DefaultConfig()
		}
		if err := node.Decode(&profile); err != nil {
			return Config{}, fmt.Errorf("parse cache %q: %w", name, err)
		}
		cfg.Caches[name] = profile
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	if len(c.Caches) == 0 {
		errs = append(errs, errors.New("at least one cache profile is required"))
	}
	for name, profile := range c.Caches {
		if err := profile.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("cache %q: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
