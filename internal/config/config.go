// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Accept the plain PORT / MONGO_URI / JWT_SECRET names used by older deployments.
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix STOREFRONT_.
	Keys are lowercased and the prefix removed; nesting uses "." so
	STOREFRONT_SERVER.PORT -> server.port -> Config.Server.Port
*/

// EnvPrefix is the prefix every application variable carries.
const EnvPrefix = "STOREFRONT_"

// Supported persistence drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig selects the persistence driver and how to reach it.
//
// URI is the driver connection string (mongodb://... or postgres://...).
// Name is the Mongo database name; Postgres takes it from the URI path.
type DatabaseConfig struct {
	Driver         string        `koanf:"driver" validate:"required,oneof=mongo postgres memory"`
	URI            string        `koanf:"uri" validate:"required_unless=Driver memory"`
	Name           string        `koanf:"name" validate:"required_if=Driver mongo"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"min=1s"`
	MaxConns       int32         `koanf:"max_conns" validate:"min=1"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; empty disables Redis-backed features.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// AuthConfig stores authentication-related secrets.
type AuthConfig struct {
	SecretKey string        `koanf:"secret_key" validate:"required"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"min=1m"`
}

// RateLimitConfig bounds how often a single client may call the login route.
type RateLimitConfig struct {
	LoginPerMinute int `koanf:"login_per_minute" validate:"min=1"`
}

// IsProduction reports whether the primary environment is production.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

// legacyKeys maps the unprefixed variable names of the original deployment
// onto koanf keys. Prefixed variables loaded afterwards win.
var legacyKeys = map[string]string{
	"PORT":       "server.port",
	"MONGO_URI":  "database.uri",
	"JWT_SECRET": "auth.secret_key",
}

func defaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "3000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:         DriverMongo,
			Name:           "storefront",
			ConnectTimeout: 10 * time.Second,
			MaxConns:       10,
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 20,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// listKeys are read as comma separated lists.
var listKeys = map[string]struct{}{
	"server.cors_allowed_origins":        {},
	"observability.health_checks.checks": {},
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the resulting config.
//
// Behavior summary:
//   - Loads the legacy unprefixed names, then env vars with prefix STOREFRONT_
//   - Unmarshals on top of defaultConfig(), so unset keys keep their defaults
//   - Validates required config blocks/fields
//   - Sets default observability if missing and validates it
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if mapped, ok := legacyKeys[key]; ok && value != "" {
			return mapped, value
		}
		// Returning an empty key tells koanf to skip the variable.
		return "", nil
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()

	// Unmarshal reads the flat key-value store from koanf and fills mainConfig.
	// "" means "unmarshal everything from the root".
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// An explicit empty block still gets the defaults.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed and the environment always mirrors primary.env,
	// so logs and traces agree on both.
	mainConfig.Observability.ServiceName = "storefront"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
