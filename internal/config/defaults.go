package config

import (
	"time"

	"github.com/rshade/ecoscore/internal/engine/batch"
	"github.com/rshade/ecoscore/internal/engine/cache"
	"github.com/rshade/ecoscore/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. ECOSCORE_SERVER_ADDR.
const EnvPrefix = "ECOSCORE"

// Environments.
const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

// Defaults.
const (
	DefaultAddr        = ":8080"
	DefaultEnvironment = EnvironmentProduction
	DefaultCORSOrigin  = "*"
	DefaultShutdown    = 10 * time.Second

	DefaultRateLimitRequests = 0
	DefaultRateLimitWindow   = time.Minute

	DefaultConfigName = "ecoscore"
)

// Default cache TTLs, in seconds.
var (
	DefaultMaterialsTTL = cache.DefaultMaterialsTTLSeconds //nolint:gochecknoglobals // Mirrors cache defaults
	DefaultReportTTL    = cache.DefaultReportTTLSeconds    //nolint:gochecknoglobals // Mirrors cache defaults
	DefaultBatchSize    = batch.DefaultBatchSize           //nolint:gochecknoglobals // Mirrors batch defaults
	DefaultLogLevel     = logging.DefaultConfig().Level    //nolint:gochecknoglobals // Mirrors logging defaults
	DefaultLogFormat    = logging.DefaultConfig().Format   //nolint:gochecknoglobals // Mirrors logging defaults
	DefaultLogOutput    = logging.DefaultConfig().Output   //nolint:gochecknoglobals // Mirrors logging defaults
)
