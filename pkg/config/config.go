// Package config loads the stackdiagram configuration file.
//
// The file is TOML at $XDG_CONFIG_HOME/stackdiagram/config.toml (or the
// platform equivalent), overridable with STACKDIAGRAM_CONFIG. A missing file
// yields [Default]. Unknown keys are rejected so typos do not pass silently.
//
//	[render]
//	formats   = ["svg", "png"]
//	out_dir   = "out"
//	direction = "TB"
//	backend   = "exec"
//
//	[cache]
//	ttl = "72h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "STACKDIAGRAM_CONFIG"

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Config is the full configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// RenderConfig holds defaults for the render command and service.
type RenderConfig struct {
	Formats   []string `toml:"formats" validate:"dive,oneof=png jpg jpeg svg pdf dot gv"`
	OutDir    string   `toml:"out_dir"`
	Direction string   `toml:"direction" validate:"omitempty,oneof=TB BT LR RL"`
	Backend   string   `toml:"backend" validate:"omitempty,oneof=graphviz exec"`
	DotBinary string   `toml:"dot_binary"`
}

// CacheConfig selects and tunes the artifact cache. RedisAddr takes
// precedence over Dir.
type CacheConfig struct {
	Disabled    bool     `toml:"disabled"`
	Dir         string   `toml:"dir"`
	RedisAddr   string   `toml:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPrefix string   `toml:"redis_prefix"`
	TTL         Duration `toml:"ttl" validate:"gte=0"`
}

// ServerConfig configures `stackdiagram serve`.
type ServerConfig struct {
	Addr          string   `toml:"addr" validate:"required"`
	MaxBodyBytes  int64    `toml:"max_body_bytes" validate:"gt=0"`
	RenderTimeout Duration `toml:"render_timeout" validate:"gte=0"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Backend: "graphviz"},
		Cache: CacheConfig{
			RedisPrefix: "stackdiagram:",
			TTL:         Duration(7 * 24 * time.Hour),
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxBodyBytes:  1 << 20,
			RenderTimeout: Duration(30 * time.Second),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "stackdiagram", "config.toml"), nil
}

// Load reads the config at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode reads a config from r over the defaults and validates it. name is
// used in error messages.
func Decode(r io.Reader, name string) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", name, strings.Join(keys, ", "))
	}
	cfg.Render.Direction = strings.ToUpper(cfg.Render.Direction)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", name)
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: %v fails %s=%s", field, fe.Value(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s: %v fails %s", field, fe.Value(), fe.Tag())
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
