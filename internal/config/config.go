package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	AI       AIConfig       `mapstructure:"ai"`
	Generate GenerateConfig `mapstructure:"generate"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type AIConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
}

type GenerateConfig struct {
	MinBusinessTextChars int `mapstructure:"min_business_text_chars"`
}

// envBindings maps config keys to the environment variables that can set
// them, in precedence order.
var envBindings = []struct {
	key  string
	envs []string
}{
	{"server.port", []string{"SERVER_PORT", "PORT"}},
	{"fetch.timeout", []string{"FETCH_TIMEOUT"}},
	{"fetch.user_agent", []string{"FETCH_USER_AGENT"}},
	{"ai.provider", []string{"AI_PROVIDER"}},
	{"ai.api_key", []string{"OPENAI_API_KEY"}},
	{"ai.base_url", []string{"OPENAI_BASE_URL"}},
	{"ai.model", []string{"AI_MODEL", "OPENAI_MODEL"}},
	{"generate.min_business_text_chars", []string{"MIN_BUSINESS_TEXT_CHARS"}},
}

func Load() (*Config, error) {
	// A .env file is a local convenience; deployments set real env vars.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.timeout", "12s")
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("generate.min_business_text_chars", 300)

	for _, b := range envBindings {
		args := append([]string{b.key}, b.envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Generate.MinBusinessTextChars < 0 {
		return fmt.Errorf("generate.min_business_text_chars must not be negative")
	}
	return nil
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
