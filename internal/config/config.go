package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	Console  ConsoleConfig  `mapstructure:"console"`
	Platform PlatformConfig `mapstructure:"platform"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
}

// ConsoleConfig contains settings for the local HTTP host the browser UI talks to.
type ConsoleConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PlatformConfig contains connection options for the remote marketing-collateral API.
type PlatformConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ClamdConfig contains the optional clamd endpoint used to scan uploads.
// An empty address disables scanning.
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// Timeout 返回平台 API 请求的超时时长。
func (p PlatformConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if raw := v.GetString("console.allowed_origins"); raw != "" {
		cfg.Console.AllowedOrigins = splitAndTrim(raw)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("console.port", 8090)
	v.SetDefault("console.allowed_origins", "")
	v.SetDefault("platform.base_url", "http://localhost:3001")
	v.SetDefault("platform.timeout_seconds", 5)
	v.SetDefault("clamd.addr", "")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"console.port":             "CONSOLE_PORT",
		"console.allowed_origins":  "CONSOLE_ALLOWED_ORIGINS",
		"platform.base_url":        "PLATFORM_BASE_URL",
		"platform.timeout_seconds": "PLATFORM_TIMEOUT_SECONDS",
		"clamd.addr":               "CLAMD_ADDR",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Console.Port <= 0 {
		return errors.New("console port must be positive")
	}
	if strings.TrimSpace(cfg.Platform.BaseURL) == "" {
		return errors.New("platform base url is required")
	}
	if cfg.Platform.TimeoutSeconds <= 0 {
		return errors.New("platform timeout must be positive")
	}
	return nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
