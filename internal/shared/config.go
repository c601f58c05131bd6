package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Aggregate AggregateConfig `toml:"aggregate"`
	Resolver  ResolverConfig  `toml:"resolver"`
	Database  DatabaseConfig  `toml:"database"`
	Log       LogConfig       `toml:"log"`
	YtDlp     YtDlpConfig     `toml:"ytdlp"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string        `toml:"host"`
	Port         int           `toml:"port"`
	Environment  string        `toml:"environment"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Addr returns the host:port pair the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment reports whether error details may be exposed to clients.
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// CatalogConfig controls the upstream catalog client: timeouts, pacing, retries and caching.
type CatalogConfig struct {
	Language      string        `toml:"language"`
	Location      string        `toml:"location"`
	UserAgent     string        `toml:"user_agent"`
	InitTimeout   time.Duration `toml:"init_timeout"`
	CallTimeout   time.Duration `toml:"call_timeout"`
	StreamTimeout time.Duration `toml:"stream_timeout"`
	Cooldown      time.Duration `toml:"cooldown"`
	RateLimit     float64       `toml:"rate_limit"`
	Burst         int           `toml:"burst"`
	RetryMax      int           `toml:"retry_max"`
	RetryWaitMin  time.Duration `toml:"retry_wait_min"`
	RetryWaitMax  time.Duration `toml:"retry_wait_max"`
	BreakerTrips  uint32        `toml:"breaker_trips"`
	BreakerReset  time.Duration `toml:"breaker_reset"`
	CacheTTL      time.Duration `toml:"cache_ttl"`
}

// AggregateConfig tunes the aggregation flows.
type AggregateConfig struct {
	ItemsPerPage      int      `toml:"items_per_page"`
	EarlyStopPages    int      `toml:"early_stop_pages"`
	PopularLimit      int      `toml:"popular_limit"`
	LongListenLimit   int      `toml:"long_listen_limit"`
	PopularGenres     []string `toml:"popular_genres"`
	RecommendGenres   []string `toml:"recommend_genres"`
	LongListenQueries []string `toml:"long_listen_queries"`
}

// ResolverConfig extends the compiled-in known channel table.
type ResolverConfig struct {
	KnownChannels map[string]string `toml:"known_channels"`
}

// DatabaseConfig contains database connection settings.
// An empty Path disables the persistent response cache.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// YtDlpConfig controls the yt-dlp backed audio resolver.
type YtDlpConfig struct {
	Enabled  bool          `toml:"enabled"`
	Binary   string        `toml:"binary"`
	CacheTTL time.Duration `toml:"cache_ttl"`
	MaxCache int           `toml:"max_cache"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values that would otherwise cause divide-by-zero or busy loops downstream.
func (c *Config) Validate() error {
	switch {
	case c.Aggregate.ItemsPerPage <= 0:
		return fmt.Errorf("%w: aggregate.items_per_page must be positive", ErrInvalidConfig)
	case c.Aggregate.EarlyStopPages <= 0:
		return fmt.Errorf("%w: aggregate.early_stop_pages must be positive", ErrInvalidConfig)
	case c.Catalog.InitTimeout <= 0 || c.Catalog.CallTimeout <= 0:
		return fmt.Errorf("%w: catalog timeouts must be positive", ErrInvalidConfig)
	case c.Catalog.Cooldown < 0:
		return fmt.Errorf("%w: catalog.cooldown cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
