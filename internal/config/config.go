// Package config はYAMLファイルと環境変数から設定を読み込みます
// 優先順位は 既定値 < YAMLファイル < 環境変数 です
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv はYAMLファイルのパスを指定する環境変数です
const ConfigPathEnv = "CONFIG_PATH"

// Config はサーバーとCLIの設定です
type Config struct {
	Port               int           `yaml:"port" env:"PORT"`
	OpenSeaAPIKey      string        `yaml:"openseaApiKey" env:"OPENSEA_API_KEY"`
	OpenSeaBaseURL     string        `yaml:"openseaBaseUrl" env:"OPENSEA_BASE_URL"`
	OpenSeaPageSize    int           `yaml:"openseaPageSize" env:"OPENSEA_PAGE_SIZE"`
	GraphQLURL         string        `yaml:"graphqlUrl" env:"GRAPHQL_URL"`
	CachePath          string        `yaml:"cachePath" env:"CACHE_PATH"`
	CacheTTL           time.Duration `yaml:"cacheTtl" env:"CACHE_TTL"`
	CORSAllowedOrigins []string      `yaml:"corsAllowedOrigins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel           string        `yaml:"logLevel" env:"LOG_LEVEL"`
}

// Default は既定値の設定を返します
func Default() *Config {
	return &Config{
		Port:               8080,
		OpenSeaBaseURL:     "https://api.opensea.io",
		OpenSeaPageSize:    50,
		GraphQLURL:         "https://api.metagame.wtf/v1/graphql",
		CacheTTL:           10 * time.Minute,
		CORSAllowedOrigins: []string{"*"},
		LogLevel:           "info",
	}
}

// Load は既定値にYAMLファイル（path が空なら省略）と環境変数を順に重ねます
func Load(path string) (*Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv は CONFIG_PATH が指すファイルを使って Load します
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(ConfigPathEnv))
}

// Validate は設定値の整合性を確認します
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.OpenSeaPageSize <= 0 {
		errs = append(errs, fmt.Errorf("opensea page size must be positive: %d", c.OpenSeaPageSize))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be positive: %s", c.CacheTTL))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	return errors.Join(errs...)
}

// Addr はサーバーの待ち受けアドレスです
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Level はログレベルを返します。不正な値はinfoとして扱います
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
