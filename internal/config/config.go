package config

// Configuration loading and validation for dexterm

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/errors"
	"github.com/tturner/dexterm/internal/logging"
	"github.com/tturner/dexterm/internal/sprite"
)

const (
	// EnvConfigPath names the config file when --config is not given.
	EnvConfigPath = "DEXTERM_CONFIG"
	// DefaultPath is tried when neither the flag nor the env var is set.
	DefaultPath = "dexterm.yaml"
	// DotEnvPath is loaded, if present, before the environment is read.
	DotEnvPath = ".env"
)

// EnvVars lists every environment variable the config reads.
var EnvVars = []string{
	EnvConfigPath,
	"DEXTERM_API_BASE_URL",
	"DEXTERM_API_TIMEOUT",
	"DEXTERM_API_USER_AGENT",
	"DEXTERM_PAGE_SIZE",
	"DEXTERM_JOIN_POLICY",
	"DEXTERM_MAX_CONCURRENCY",
	"DEXTERM_SPRITES",
	"DEXTERM_SPRITE_WIDTH",
	"DEXTERM_LOG_LEVEL",
	"DEXTERM_LOG_FILE",
	"DEXTERM_LOG_FORMAT",
}

// Config is the root configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Catalog CatalogConfig `yaml:"catalog"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`

	// Path is the file the config was read from, empty for env + defaults.
	Path string `yaml:"-"`
}

// APIConfig holds upstream API settings.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"DEXTERM_API_BASE_URL"   env-default:"https://pokeapi.co/api/v2"`
	Timeout   time.Duration `yaml:"timeout"    env:"DEXTERM_API_TIMEOUT"    env-default:"15s"`
	UserAgent string        `yaml:"user_agent" env:"DEXTERM_API_USER_AGENT" env-default:"dexterm"`
}

// MarshalYAML writes the timeout as a duration string.
func (a APIConfig) MarshalYAML() (any, error) {
	return struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	}{a.BaseURL, a.Timeout.String(), a.UserAgent}, nil
}

// CatalogConfig controls how the list is loaded.
type CatalogConfig struct {
	PageSize       int    `yaml:"page_size"       env:"DEXTERM_PAGE_SIZE"       env-default:"151"`
	JoinPolicy     string `yaml:"join_policy"     env:"DEXTERM_JOIN_POLICY"     env-default:"all"`
	MaxConcurrency int    `yaml:"max_concurrency" env:"DEXTERM_MAX_CONCURRENCY" env-default:"0"`
}

// UIConfig controls presentation.
type UIConfig struct {
	// No env-default: a default would override an explicit false.
	Sprites     bool `yaml:"sprites"      env:"DEXTERM_SPRITES"`
	SpriteWidth int  `yaml:"sprite_width" env:"DEXTERM_SPRITE_WIDTH" env-default:"32"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"  env:"DEXTERM_LOG_LEVEL"  env-default:"error"`
	File   string `yaml:"file"   env:"DEXTERM_LOG_FILE"`
	Format string `yaml:"format" env:"DEXTERM_LOG_FORMAT" env-default:"text"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "https://pokeapi.co/api/v2",
			Timeout:   15 * time.Second,
			UserAgent: "dexterm",
		},
		Catalog: CatalogConfig{
			PageSize:   catalog.DefaultPageSize,
			JoinPolicy: catalog.JoinAll.String(),
		},
		UI: UIConfig{
			Sprites:     true,
			SpriteWidth: sprite.DefaultWidth,
		},
		Log: LogConfig{
			Level:  "error",
			Format: "text",
		},
	}
}

// ResolvePath picks the config file: the flag value, then DEXTERM_CONFIG,
// then ./dexterm.yaml if it exists. explicit is false only for the last
// case and for "no file".
func ResolvePath(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, true
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath, false
	}
	return "", false
}

// Load reads configuration. Priority: ENV > .env > YAML > defaults.
// A missing file is an error only when it was named explicitly.
func Load(flagPath string) (*Config, error) {
	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, errors.WrapConfigError(err, DotEnvPath)
	}

	cfg := Default()
	path, explicit := ResolvePath(flagPath)

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.WrapConfigError(fmt.Errorf("read env: %w", err), "environment")
		}
	} else {
		if _, err := os.Stat(path); err != nil && explicit {
			return nil, errors.WrapConfigError(fmt.Errorf("config file: %w", err), path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, errors.WrapConfigError(fmt.Errorf("read %s: %w", path, err), path)
		}
		cfg.Path = path
	}

	if err := cfg.Validate(); err != nil {
		source := cfg.Path
		if source == "" {
			source = "environment"
		}
		return nil, errors.WrapConfigError(fmt.Errorf("validate: %w", err), source)
	}
	return &cfg, nil
}

// loadDotEnv loads KEY=VALUE pairs without overriding variables that are
// already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate performs business-rule validation on the loaded configuration.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Catalog.validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.UI.validate(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (a *APIConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an http(s) URL (got %q)", a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", a.Timeout)
	}
	return nil
}

func (c *CatalogConfig) validate() error {
	if c.PageSize < 1 || c.PageSize > catalog.MaxPageSize {
		return fmt.Errorf("page_size must be in 1..%d (got %d)", catalog.MaxPageSize, c.PageSize)
	}
	if _, err := catalog.ParseJoinPolicy(c.JoinPolicy); err != nil {
		return fmt.Errorf("join_policy: %w", err)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0 (got %d)", c.MaxConcurrency)
	}
	return nil
}

// Policy returns the parsed join policy. Call after Validate.
func (c CatalogConfig) Policy() catalog.JoinPolicy {
	p, _ := catalog.ParseJoinPolicy(c.JoinPolicy)
	return p
}

func (u *UIConfig) validate() error {
	if u.SpriteWidth < sprite.MinWidth || u.SpriteWidth > sprite.MaxWidth {
		return fmt.Errorf("sprite_width must be in %d..%d (got %d)", sprite.MinWidth, sprite.MaxWidth, u.SpriteWidth)
	}
	return nil
}

func (l *LogConfig) validate() error {
	if _, err := logging.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json (got %q)", l.Format)
	}
	return nil
}

// YAML renders the configuration as it would be written to disk.
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to path. An existing file is
// left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := Default().YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
