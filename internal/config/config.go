package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved toolcat configuration.
type Config struct {
	CatalogSource string
	WatchCatalog  bool
	Refresh       time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration
	CacheTTL      time.Duration
	FeaturedLimit int
	LogFile       string
	Debug         bool
	StoreHistory  int
}

const (
	defaultConfigPath    = "~/.config/toolcat/config.toml"
	defaultCatalogSource = "~/.config/toolcat/tools.yaml"
	defaultLogFile       = "~/.local/state/toolcat/toolcat.log"
	envPrefix            = "TOOLCAT"
)

// Keys accepted in the config file, as TOOLCAT_* variables and as flags.
const (
	KeyCatalogSource = "catalog.source"
	KeyCatalogWatch  = "catalog.watch"
	KeyRefresh       = "catalog.refresh"
	KeyMaxAttempts   = "load.max_attempts"
	KeyRetryDelay    = "load.retry_delay"
	KeyCacheTTL      = "cache.ttl"
	KeyFeaturedLimit = "ui.featured_limit"
	KeyLogFile       = "log.file"
	KeyLogDebug      = "log.debug"
	KeyStoreHistory  = "store.history"
)

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"catalog": KeyCatalogSource,
	"watch":   KeyCatalogWatch,
	"debug":   KeyLogDebug,
	"log":     KeyLogFile,
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load resolves configuration with precedence flags > environment > file >
// defaults. A missing config file is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault(KeyCatalogSource, defaultCatalogSource)
	v.SetDefault(KeyCatalogWatch, true)
	v.SetDefault(KeyRefresh, "0s")
	v.SetDefault(KeyMaxAttempts, 3)
	v.SetDefault(KeyRetryDelay, "1s")
	v.SetDefault(KeyCacheTTL, "5m")
	v.SetDefault(KeyFeaturedLimit, 6)
	v.SetDefault(KeyLogFile, defaultLogFile)
	v.SetDefault(KeyLogDebug, false)
	v.SetDefault(KeyStoreHistory, 50)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if _, err := os.Stat(resolved); err == nil {
		v.SetConfigFile(resolved)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil && flag.Changed {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		CatalogSource: strings.TrimSpace(v.GetString(KeyCatalogSource)),
		WatchCatalog:  v.GetBool(KeyCatalogWatch),
		Refresh:       v.GetDuration(KeyRefresh),
		MaxAttempts:   v.GetInt(KeyMaxAttempts),
		RetryDelay:    v.GetDuration(KeyRetryDelay),
		CacheTTL:      v.GetDuration(KeyCacheTTL),
		FeaturedLimit: v.GetInt(KeyFeaturedLimit),
		LogFile:       strings.TrimSpace(v.GetString(KeyLogFile)),
		Debug:         v.GetBool(KeyLogDebug),
		StoreHistory:  v.GetInt(KeyStoreHistory),
	}

	if cfg.CatalogSource == "" {
		cfg.CatalogSource = defaultCatalogSource
	}
	if !IsRemote(cfg.CatalogSource) {
		cfg.CatalogSource = mustExpand(cfg.CatalogSource)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	cfg.LogFile = mustExpand(cfg.LogFile)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsRemote reports whether source names an HTTP catalog API.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func validate(cfg Config) error {
	if cfg.Refresh < 0 {
		return fmt.Errorf("%s must not be negative, got %v", KeyRefresh, cfg.Refresh)
	}
	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyMaxAttempts, cfg.MaxAttempts)
	}
	if cfg.RetryDelay <= 0 {
		return fmt.Errorf("%s must be positive, got %v", KeyRetryDelay, cfg.RetryDelay)
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("%s must be positive, got %v", KeyCacheTTL, cfg.CacheTTL)
	}
	if cfg.FeaturedLimit < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyFeaturedLimit, cfg.FeaturedLimit)
	}
	if cfg.StoreHistory <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyStoreHistory, cfg.StoreHistory)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
