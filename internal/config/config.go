// Package config loads doctran settings from flags, the environment and an
// optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/doctran/internal/catalog"
)

// EnvPrefix namespaces environment overrides, e.g. DOCTRAN_BACKEND.
const EnvPrefix = "DOCTRAN"

// ErrMissingCredential is returned when the selected backend needs a
// credential that is not configured.
var ErrMissingCredential = errors.New("missing credential")

type Config struct {
	Backend        string `mapstructure:"backend"`
	Model          string `mapstructure:"model"`
	TargetLanguage string `mapstructure:"target_language"`
	Instructions   string `mapstructure:"instructions"`
	APIKey         string `mapstructure:"api_key"`
	DB             string `mapstructure:"db"`
	LogLevel       string `mapstructure:"log_level"`

	Cache      CacheConfig    `mapstructure:"cache"`
	Writer     WriterConfig   `mapstructure:"writer"`
	Vertex     VertexConfig   `mapstructure:"vertex"`
	Google     GoogleConfig   `mapstructure:"google"`
	Ollama     EndpointConfig `mapstructure:"ollama"`
	OpenRouter EndpointConfig `mapstructure:"openrouter"`
	OpenAI     EndpointConfig `mapstructure:"openai"`
	Breaker    BreakerConfig  `mapstructure:"breaker"`
}

type CacheConfig struct {
	// Backend is memory, sqlite or bolt.
	Backend string `mapstructure:"backend"`
	// Size bounds the memory cache; 0 means unbounded.
	Size int    `mapstructure:"size"`
	Path string `mapstructure:"path"`
}

type WriterConfig struct {
	Font string `mapstructure:"font"`
}

type VertexConfig struct {
	Project string `mapstructure:"project"`
	Region  string `mapstructure:"region"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
}

type EndpointConfig struct {
	URL string `mapstructure:"url"`
}

type BreakerConfig struct {
	Threshold uint32        `mapstructure:"threshold"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

var cacheBackends = []string{"memory", "sqlite", "bolt"}

// keyEnv lists the provider-specific variables consulted when api_key is
// not set, per backend.
var keyEnv = map[string]string{
	"gemini":     "GEMINI_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// SetDefaults registers every key so AutomaticEnv and Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", "gemini")
	v.SetDefault("model", "")
	v.SetDefault("target_language", catalog.DefaultLanguage)
	v.SetDefault("instructions", "")
	v.SetDefault("api_key", "")
	v.SetDefault("db", defaultDBPath())
	v.SetDefault("log_level", "warn")
	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.size", 0)
	v.SetDefault("cache.path", "")
	v.SetDefault("writer.font", "DejaVuSans.ttf")
	v.SetDefault("vertex.project", "")
	v.SetDefault("vertex.region", "us-central1")
	v.SetDefault("google.credentials", "")
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("openrouter.url", "https://openrouter.ai/api/v1")
	v.SetDefault("openai.url", "")
	v.SetDefault("breaker.threshold", 0)
	v.SetDefault("breaker.timeout", 30*time.Second)
}

// Configure points v at the config file (or $HOME/.doctran.yaml) and the
// DOCTRAN_ environment. A missing config file is not an error.
func Configure(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".doctran")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load decodes and validates v. Commands that never reach a backend use
// Decode instead, so they work without a credential.
func Load(v *viper.Viper) (*Config, error) {
	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals v, fills the provider-specific credential from the
// environment and derives the cache path, without validating.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.APIKey == "" {
		if name, ok := keyEnv[cfg.Backend]; ok {
			cfg.APIKey = os.Getenv(name)
		}
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = cfg.DB
		if cfg.Cache.Backend == "bolt" {
			cfg.Cache.Path = strings.TrimSuffix(cfg.DB, filepath.Ext(cfg.DB)) + ".bolt"
		}
	}
	return &cfg, nil
}

// Validate checks the backend and its credential, the cache backend and
// the log level.
func (c *Config) Validate() error {
	if !slices.Contains(catalog.Backends(), c.Backend) {
		return fmt.Errorf("unknown backend %q (choose one of %s)", c.Backend, strings.Join(catalog.Backends(), ", "))
	}
	switch c.Backend {
	case "gemini", "openai", "openrouter":
		if c.APIKey == "" {
			return fmt.Errorf("%w: %s API key is not set; set %s or %s_API_KEY, or api_key in the config file",
				ErrMissingCredential, c.Backend, keyEnv[c.Backend], EnvPrefix)
		}
	case "vertex":
		if c.Vertex.Project == "" || c.Vertex.Region == "" {
			return fmt.Errorf("%w: vertex.project and vertex.region are required", ErrMissingCredential)
		}
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return fmt.Errorf("unknown cache backend %q (choose one of %s)", c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "doctran.db"
	}
	return filepath.Join(home, ".doctran.db")
}
