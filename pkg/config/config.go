// Package config loads the treemap configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/treemap/config.toml
// (falling back to ~/.config/treemap/config.toml). Every key is optional;
// missing keys keep the values of [Default]:
//
//	[layout]
//	width = 1200
//	height = 800
//	max_depth = 0   # unlimited
//	border = 0
//
//	[render]
//	palette = "default"
//	labels = true
//
//	[cache]
//	backend = "file"  # file, redis or none
//	ttl = "1h"
//
//	[server]
//	addr = ":8080"
//
//	[s3]
//	region = "us-east-1"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/render"
)

// AppName names the configuration and cache directories.
const AppName = "treemap"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the contents of the configuration file.
type Config struct {
	Layout Layout `toml:"layout"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	S3     S3     `toml:"s3"`
}

// Layout holds layout defaults.
type Layout struct {
	Width    int `toml:"width"`
	Height   int `toml:"height"`
	MaxDepth int `toml:"max_depth"`
	Border   int `toml:"border"`
}

// Render holds render defaults.
type Render struct {
	Palette string `toml:"palette"`
	Labels  bool   `toml:"labels"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// Server configures "treemap serve".
type Server struct {
	Addr string `toml:"addr"`
}

// S3 configures the S3 source.
type S3 struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// Duration is a time.Duration written as a string ("90s", "1h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{Width: 1200, Height: 800},
		Render: Render{Palette: render.DefaultPalette, Labels: true},
		Cache:  Cache{Backend: BackendFile, RedisAddr: "localhost:6379", TTL: Duration{time.Hour}},
		Server: Server{Addr: ":8080"},
		S3:     S3{Region: "us-east-1"},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the configuration directory using the XDG standard.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Load reads the file at path on top of [Default]. A missing file is not an
// error and yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the file at [Path].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := errors.ValidateSize(c.Layout.Width, c.Layout.Height); err != nil {
		return err
	}
	if c.Layout.Border < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "border must not be negative, got %d", c.Layout.Border)
	}
	if _, ok := render.LookupPalette(c.Render.Palette); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown palette %q", c.Render.Palette)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
