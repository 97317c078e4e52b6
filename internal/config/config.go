package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Data       DataConfig       `mapstructure:"data"`
	Violations ViolationsConfig `mapstructure:"violations"`
	Chat       ChatConfig       `mapstructure:"chat"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port               int      `mapstructure:"port"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	RequestTimeoutSec  int      `mapstructure:"request_timeout_sec"`  // HTTP read/write
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec"` // Graceful shutdown wait
	MaxBodyBytes       int64    `mapstructure:"max_body_bytes"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or console
	File       string `mapstructure:"file"`   // empty = stderr only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DataConfig points at the record store. Empty paths use the embedded
// sample set.
type DataConfig struct {
	IssuesPath  string `mapstructure:"issues_path"`
	AccountPath string `mapstructure:"account_path"`
	// ReferenceDate pins "now" (YYYY-MM-DD) for demo data sets.
	ReferenceDate string `mapstructure:"reference_date"`
}

type ViolationsConfig struct {
	SLAThresholdDays int `mapstructure:"sla_threshold_days"`
	CacheSize        int `mapstructure:"cache_size"` // 0 = cache disabled
	CacheTTLSec      int `mapstructure:"cache_ttl_sec"`
}

type ChatConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	Model           string  `mapstructure:"model"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
	HistoryLimit    int     `mapstructure:"history_limit"`
	TimeoutSec      int     `mapstructure:"timeout_sec"`
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec"` // per client IP; 0 = no limit
	RateLimitBurst  int     `mapstructure:"rate_limit_burst"`
}

type TracingConfig struct {
	Endpoint     string  `mapstructure:"endpoint"` // OTLP/HTTP host:port; empty = disabled
	ServiceName  string  `mapstructure:"service_name"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

// RequestTimeout returns the server read/write timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

// ShutdownTimeout returns the graceful shutdown wait.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSec) * time.Second
}

// Manager loads configuration and tracks changes to the config file.
type Manager struct {
	v   *viper.Viper
	mu  sync.RWMutex
	cfg *Config
}

// Load reads configuration from defaults, an optional YAML file and the
// environment (prefix SELLER_HEALTH_, dots become underscores). With an
// empty path the file "config.yaml" is searched in /etc/seller-health/,
// $HOME/.seller-health and the working directory.
func Load(path string) (*Manager, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/seller-health/")
		v.AddConfigPath("$HOME/.seller-health")
		v.AddConfigPath(".")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SELLER_HEALTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	m := &Manager{v: v}
	cfg, err := m.unmarshal()
	if err != nil {
		return nil, err
	}
	m.cfg = cfg
	return m, nil
}

// Get returns the current configuration. Callers must not modify it.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Watch reloads the config file when it changes and passes each valid new
// configuration to onChange. Invalid files are reported to onError and the
// previous configuration is kept.
func (m *Manager) Watch(onChange func(*Config), onError func(error)) {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := m.unmarshal()
		if err == nil {
			err = Join(cfg.Validate())
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("config reload from %s: %w", e.Name, err))
			}
			return
		}
		m.mu.Lock()
		m.cfg = cfg
		m.mu.Unlock()
		if onChange != nil {
			onChange(cfg)
		}
	})
	m.v.WatchConfig()
}

func (m *Manager) unmarshal() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout_sec", 60)
	v.SetDefault("server.shutdown_timeout_sec", 15)
	v.SetDefault("server.max_body_bytes", 64*1024)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 10)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("data.issues_path", "")
	v.SetDefault("data.account_path", "")
	v.SetDefault("data.reference_date", "")

	v.SetDefault("violations.sla_threshold_days", 10)
	v.SetDefault("violations.cache_size", 256)
	v.SetDefault("violations.cache_ttl_sec", 30)

	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.base_url", "https://api.openai.com/v1")
	v.SetDefault("chat.model", "gpt-4o-mini")
	v.SetDefault("chat.max_tokens", 1000)
	v.SetDefault("chat.temperature", 0.7)
	v.SetDefault("chat.history_limit", 10)
	v.SetDefault("chat.timeout_sec", 30)
	v.SetDefault("chat.rate_limit_per_sec", 1.0)
	v.SetDefault("chat.rate_limit_burst", 5)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "seller-health")
	v.SetDefault("tracing.sampling_rate", 1.0)
}

// applyEnvOverrides applies environment variable overrides for sensitive data.
func applyEnvOverrides(cfg *Config) {
	if cfg.Chat.APIKey == "" {
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			cfg.Chat.APIKey = apiKey
		}
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" && cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")
	}
}
