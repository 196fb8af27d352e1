package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"sakura/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultEndpoint       = "https://jsonplaceholder.typicode.com/todos"
	DefaultLimit          = 8
	DefaultTimeout        = 10 * time.Second
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	Search  string `toml:"search"`
	Filter  string `toml:"filter"`
	Retry   string `toml:"retry"`
}

// Duration reads TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Source struct {
	Kind     string   `toml:"kind"`
	Endpoint string   `toml:"endpoint"`
	Limit    int      `toml:"limit"`
	Timeout  Duration `toml:"timeout"`
	DBPath   string   `toml:"db_path"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	DefaultFilter   string `toml:"default_filter"`
	UppercaseTitles bool   `toml:"uppercase_titles"`
	Source          Source `toml:"source"`
	Log             Log    `toml:"log"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath honours SAKURA_CONFIG and falls back to the working
// directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("SAKURA_CONFIG")); p != "" {
		return p
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode toml: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Source.Kind == "" {
		c.Source.Kind = d.Source.Kind
	}
	if c.Source.Endpoint == "" {
		c.Source.Endpoint = d.Source.Endpoint
	}
	if c.Source.Limit == 0 {
		c.Source.Limit = d.Source.Limit
	}
	if c.Source.Timeout.Duration == 0 {
		c.Source.Timeout = d.Source.Timeout
	}
	if c.Source.DBPath == "" {
		c.Source.DBPath = d.Source.DBPath
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = d.DefaultFilter
	}
}

func (c Config) Validate() error {
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("invalid default_filter: %w", err)
	}
	if c.Source.Limit <= 0 {
		return fmt.Errorf("source.limit must be > 0, got %d", c.Source.Limit)
	}
	switch c.Source.Kind {
	case "http":
		u, err := url.Parse(c.Source.Endpoint)
		if err != nil {
			return fmt.Errorf("invalid source.endpoint: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source.endpoint must be http(s): %q", c.Source.Endpoint)
		}
	case "seed":
	case "sqlite":
		if strings.TrimSpace(c.Source.DBPath) == "" {
			return errors.New("source.db_path is required for the sqlite source")
		}
	default:
		return fmt.Errorf("invalid source.kind: %q", c.Source.Kind)
	}
	return nil
}

func Default() Config {
	return Config{
		DefaultFilter: "all",
		Source: Source{
			Kind:     "http",
			Endpoint: DefaultEndpoint,
			Limit:    DefaultLimit,
			Timeout:  Duration{DefaultTimeout},
			DBPath:   DefaultDBName,
		},
		Log: Log{
			Level: "info",
		},
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Confirm: "enter",
			Cancel:  "esc",
			Search:  "/",
			Filter:  "f",
			Retry:   "r",
		},
	}
}
