package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClientConfig configures the storefront CLI. Values come from flags,
// STOREFRONT_* environment variables, an optional config file and the
// defaults below, in that order of precedence.
type ClientConfig struct {
	APIURL       string        `mapstructure:"api-url"`
	StateBackend string        `mapstructure:"state-backend"`
	StatePath    string        `mapstructure:"state-path"`
	RedisAddr    string        `mapstructure:"redis-addr"`
	RedisPrefix  string        `mapstructure:"redis-prefix"`
	Timeout      time.Duration `mapstructure:"timeout"`
	LogLevel     string        `mapstructure:"log-level"`
	LogFormat    string        `mapstructure:"log-format"`
	LogFile      string        `mapstructure:"log-file"`
}

// DefaultStatePath is where the sqlite backend keeps the token and cart.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "storefront", "state.db")
}

// NewClientViper returns a viper instance with the client defaults and
// environment binding in place. Callers bind their flags on top.
func NewClientViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("api-url", "http://localhost:8080")
	v.SetDefault("state-backend", "sqlite")
	v.SetDefault("state-path", DefaultStatePath())
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("redis-prefix", "storefront:")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "console")
	v.SetDefault("log-file", "")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadClient reads the optional config file (when path is set, or
// storefront.yaml in the user config dir) and decodes the result.
func LoadClient(v *viper.Viper, path string) (ClientConfig, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("storefront")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "storefront"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return ClientConfig{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return ClientConfig{}, errors.New("config: api-url is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg, nil
}
