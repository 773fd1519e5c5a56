// Package config loads todo settings from defaults, a TOML file, TODO_*
// environment variables and root flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	dirName        = ".todo"
	configFileName = "config.toml"
	logFileName    = "todo.log"
	envPrefix      = "TODO"
)

// Config is the effective configuration.
type Config struct {
	BaseURL   string        `mapstructure:"base_url" toml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" toml:"timeout"`
	Layout    string        `mapstructure:"layout" toml:"layout"`
	Theme     string        `mapstructure:"theme" toml:"theme"`
	OnFailure string        `mapstructure:"on_failure" toml:"on_failure"`
	LogFile   string        `mapstructure:"log_file" toml:"log_file"`
	LogLevel  string        `mapstructure:"log_level" toml:"log_level"`
	Serve     Serve         `mapstructure:"serve" toml:"serve"`

	// Path is the config file that was read, if any.
	Path string `mapstructure:"-" toml:"-"`
}

// Serve configures the bundled development service.
type Serve struct {
	Addr  string `mapstructure:"addr" toml:"addr"`
	Store string `mapstructure:"store" toml:"store"`
	File  string `mapstructure:"file" toml:"file"`
	DSN   string `mapstructure:"dsn" toml:"dsn"`
}

// Overrides are values set by root flags. Empty fields are ignored.
type Overrides struct {
	BaseURL   string
	Layout    string
	Theme     string
	OnFailure string
	LogFile   string
	LogLevel  string
}

// Layouts lists the accepted values of layout.
var Layouts = []string{"inline", "modal", "table"}

// Dir returns ~/.todo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns ~/.todo/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://pern-todo-backend.onrender.com")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("layout", "table")
	v.SetDefault("theme", "classic")
	v.SetDefault("on_failure", "keep")
	v.SetDefault("log_level", "info")
	if dir, err := Dir(); err == nil {
		v.SetDefault("log_file", filepath.Join(dir, logFileName))
	} else {
		v.SetDefault("log_file", "")
	}
	v.SetDefault("serve.addr", "127.0.0.1:5000")
	v.SetDefault("serve.store", "memory")
	v.SetDefault("serve.file", "todos.json")
	v.SetDefault("serve.dsn", "")
}

// Load builds the configuration. An empty path means the default location;
// a missing default file is fine, a missing explicit one is an error.
func Load(path string, o Overrides) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	readFrom := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			readFrom = path
		} else if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyOverrides(v, o)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Path = readFrom
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyOverrides(v *viper.Viper, o Overrides) {
	set := func(key, val string) {
		if strings.TrimSpace(val) != "" {
			v.Set(key, val)
		}
	}
	set("base_url", o.BaseURL)
	set("layout", o.Layout)
	set("theme", o.Theme)
	set("on_failure", o.OnFailure)
	set("log_file", o.LogFile)
	set("log_level", o.LogLevel)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("config: base_url is empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", c.Timeout)
	}
	if !contains(Layouts, c.Layout) {
		return fmt.Errorf("config: unknown layout %q (want %s)", c.Layout, strings.Join(Layouts, ", "))
	}
	switch c.OnFailure {
	case "keep", "refetch":
	default:
		return fmt.Errorf("config: unknown on_failure %q (want keep or refetch)", c.OnFailure)
	}
	switch c.Serve.Store {
	case "memory", "file", "postgres":
	default:
		return fmt.Errorf("config: unknown serve.store %q (want memory, file or postgres)", c.Serve.Store)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// exampleFile mirrors Config with TOML-friendly types.
type exampleFile struct {
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`
	Layout    string `toml:"layout"`
	Theme     string `toml:"theme"`
	OnFailure string `toml:"on_failure"`
	LogFile   string `toml:"log_file"`
	LogLevel  string `toml:"log_level"`
	Serve     Serve  `toml:"serve"`
}

// WriteExample encodes cfg as a TOML config file.
func WriteExample(w io.Writer, cfg *Config) error {
	if _, err := io.WriteString(w, "# todo configuration. Env vars TODO_<KEY> override these values.\n\n"); err != nil {
		return err
	}
	ex := exampleFile{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout.String(),
		Layout:    cfg.Layout,
		Theme:     cfg.Theme,
		OnFailure: cfg.OnFailure,
		LogFile:   cfg.LogFile,
		LogLevel:  cfg.LogLevel,
		Serve:     cfg.Serve,
	}
	if err := toml.NewEncoder(w).Encode(ex); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

// InitFile writes an example config to path. It refuses to overwrite.
func InitFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := WriteExample(f, cfg); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
