// Package config loads ecoscore configuration from defaults, an optional
// YAML file and ECOSCORE_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rshade/ecoscore/internal/engine/batch"
	"github.com/rshade/ecoscore/internal/engine/cache"
	"github.com/rshade/ecoscore/internal/logging"
)

// Config is the top-level ecoscore configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    yaml:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Cache     CacheConfig     `mapstructure:"cache"     yaml:"cache"`
	Engine    EngineConfig    `mapstructure:"engine"    yaml:"engine"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" yaml:"ratelimit"`
	Catalog   CatalogConfig   `mapstructure:"catalog"   yaml:"catalog"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             yaml:"addr"`
	Environment     string        `mapstructure:"environment"      yaml:"environment"`
	CORSOrigin      string        `mapstructure:"cors_origin"      yaml:"cors_origin"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
	File   string `mapstructure:"file"   yaml:"file"`
}

// CacheConfig holds cache TTLs. Values accept integer seconds or Go
// durations ("5m").
type CacheConfig struct {
	MaterialsTTL string `mapstructure:"materials_ttl" yaml:"materials_ttl"`
	ReportTTL    string `mapstructure:"report_ttl"    yaml:"report_ttl"`
}

// EngineConfig tunes report generation.
type EngineConfig struct {
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// RateLimitConfig configures the per-client limiter. Zero requests
// disables it.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests" yaml:"requests"`
	Window   time.Duration `mapstructure:"window"   yaml:"window"`
}

// CatalogConfig locates the SQLite footprint catalog. An empty path runs
// without one.
type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Validation errors.
var (
	ErrInvalidEnvironment = errors.New("environment must be 'production' or 'development'")
	ErrInvalidBatchSize   = fmt.Errorf("batch_size must be between %d and %d", batch.MinBatchSize, batch.MaxBatchSize)
	ErrInvalidRateLimit   = errors.New("ratelimit requests must be >= 0 and window > 0")
	ErrInvalidLogFormat   = errors.New("logging format must be 'json' or 'console'")
)

// Load reads configuration from cfgFile, or from ./ecoscore.yaml and
// ~/.ecoscore/ecoscore.yaml when cfgFile is empty, then applies environment
// overrides. A missing default file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The TTL overrides also keep their historical variable names.
	_ = v.BindEnv("cache.materials_ttl", EnvPrefix+"_CACHE_MATERIALS_TTL", cache.EnvMaterialsTTLSeconds)
	_ = v.BindEnv("cache.report_ttl", EnvPrefix+"_CACHE_REPORT_TTL", cache.EnvReportTTLSeconds)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(expandPath("~/.ecoscore"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			Environment:     DefaultEnvironment,
			CORSOrigin:      DefaultCORSOrigin,
			ShutdownTimeout: DefaultShutdown,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
		Cache: CacheConfig{
			MaterialsTTL: strconv.Itoa(DefaultMaterialsTTL),
			ReportTTL:    strconv.Itoa(DefaultReportTTL),
		},
		Engine:    EngineConfig{BatchSize: DefaultBatchSize},
		RateLimit: RateLimitConfig{Requests: DefaultRateLimitRequests, Window: DefaultRateLimitWindow},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.environment", d.Server.Environment)
	v.SetDefault("server.cors_origin", d.Server.CORSOrigin)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.file", "")
	v.SetDefault("cache.materials_ttl", d.Cache.MaterialsTTL)
	v.SetDefault("cache.report_ttl", d.Cache.ReportTTL)
	v.SetDefault("engine.batch_size", d.Engine.BatchSize)
	v.SetDefault("ratelimit.requests", d.RateLimit.Requests)
	v.SetDefault("ratelimit.window", d.RateLimit.Window)
	v.SetDefault("catalog.path", "")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Server.Environment {
	case EnvironmentProduction, EnvironmentDevelopment:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidEnvironment, c.Server.Environment)
	}
	switch c.Logging.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	if _, err := c.MaterialsTTLSeconds(); err != nil {
		return fmt.Errorf("cache.materials_ttl: %w", err)
	}
	if _, err := c.ReportTTLSeconds(); err != nil {
		return fmt.Errorf("cache.report_ttl: %w", err)
	}
	if c.Engine.BatchSize < batch.MinBatchSize || c.Engine.BatchSize > batch.MaxBatchSize {
		return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, c.Engine.BatchSize)
	}
	if c.RateLimit.Requests < 0 || (c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0) {
		return ErrInvalidRateLimit
	}
	return nil
}

// MaterialsTTLSeconds parses the materials listing TTL.
func (c *Config) MaterialsTTLSeconds() (int, error) {
	return cache.ParseTTL(c.Cache.MaterialsTTL)
}

// ReportTTLSeconds parses the report TTL.
func (c *Config) ReportTTLSeconds() (int, error) {
	return cache.ParseTTL(c.Cache.ReportTTL)
}

// IsDevelopment reports whether stack traces may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvironmentDevelopment
}

// ToLoggingConfig converts the logging section for the logging package.
// A configured file switches the output to "file".
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := lc.Output
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
