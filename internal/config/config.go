package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Built-in defaults matching a stock local Ollama install with the aidapal
// fine-tuned model pulled.
const (
	DefaultBaseURL = "http://127.0.0.1:11434"
	DefaultModel   = "aidapal"
)

// Config describes the top-level application configuration loaded from YAML and ENV.
type Config struct {
	Ollama  OllamaConfig  `mapstructure:"ollama"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OllamaConfig holds the inference endpoint settings.
type OllamaConfig struct {
	BaseURL string        `mapstructure:"base_url"` // API base URL
	Model   string        `mapstructure:"model"`    // model used for analysis
	Timeout time.Duration `mapstructure:"timeout"`  // request timeout, 0 means none
}

// ServerConfig describes serve-mode settings.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// Load reads configuration from the provided path, or from configs/config.yaml if
// one exists. Environment variables override file values (prefix: PSEUDOMANCER_,
// dots replaced with underscores). The original tool's OLLAMA_BASEURL and
// OLLAMA_MODEL names are honored as fallbacks so existing setups keep working.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PSEUDOMANCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ollama.base_url", "PSEUDOMANCER_OLLAMA_BASE_URL", "OLLAMA_BASEURL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("ollama.model", "PSEUDOMANCER_OLLAMA_MODEL", "OLLAMA_MODEL"); err != nil {
		return nil, err
	}

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional: every setting has a default or env binding.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates sensible defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ollama.base_url", DefaultBaseURL)
	v.SetDefault("ollama.model", DefaultModel)
	v.SetDefault("ollama.timeout", time.Duration(0))

	v.SetDefault("server.addr", ":8598")
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Ollama.Model) == "" {
		return errors.New("ollama.model must be set")
	}

	if strings.TrimSpace(c.Ollama.BaseURL) == "" {
		return errors.New("ollama.base_url must be set")
	}
	if u, err := url.Parse(c.Ollama.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ollama.base_url %q is not a valid URL", c.Ollama.BaseURL)
	}

	if c.Ollama.Timeout < 0 {
		return errors.New("ollama.timeout must be >= 0")
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}
