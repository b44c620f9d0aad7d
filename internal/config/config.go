// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for ratewise.
type Configuration struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server,omitempty"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache,omitempty"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, json, csv
}

// ServerConfig holds HTTP API options. MaxBodySize accepts human sizes such
// as "64K"; timeouts are in seconds.
type ServerConfig struct {
	Address      string `mapstructure:"address" yaml:"address,omitempty"`
	MaxBodySize  string `mapstructure:"maxBodySize" yaml:"maxBodySize,omitempty"`
	ReadTimeout  int    `mapstructure:"readTimeout" yaml:"readTimeout,omitempty"`
	WriteTimeout int    `mapstructure:"writeTimeout" yaml:"writeTimeout,omitempty"`
}

// CacheConfig selects the result cache backend. TTL is in seconds.
type CacheConfig struct {
	Backend    string      `mapstructure:"backend" yaml:"backend,omitempty"` // none, memory, redis
	TTL        int         `mapstructure:"ttl" yaml:"ttl,omitempty"`
	MaxEntries int         `mapstructure:"maxEntries" yaml:"maxEntries,omitempty"` // memory backend only
	KeyPrefix  string      `mapstructure:"keyPrefix" yaml:"keyPrefix,omitempty"`
	Redis      RedisConfig `mapstructure:"redis" yaml:"redis,omitempty"`
}

// RedisConfig holds the connection settings for the redis cache backend.
type RedisConfig struct {
	Address  string `mapstructure:"address" yaml:"address,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	DB       int    `mapstructure:"db" yaml:"db,omitempty"`
}

// CatalogConfig points at an optional rate catalog overriding the built-in one.
type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.readTimeout", constants.DefaultReadTimeoutSeconds)
	v.SetDefault("server.writeTimeout", constants.DefaultWriteTimeoutSeconds)
	v.SetDefault("cache.backend", constants.CacheBackendNone)
	v.SetDefault("cache.ttl", constants.DefaultCacheTTLSeconds)
	v.SetDefault("cache.keyPrefix", constants.DefaultCacheKeyPrefix)
	v.SetDefault("cache.maxEntries", constants.DefaultCacheMaxEntries)
	v.SetDefault("cache.redis.address", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("catalog.path", "")
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file yields the defaults. Every key can be
// overridden through the environment, e.g. RATEWISE_CACHE_REDIS_ADDRESS.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown logging level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown logging format %q", c.Logging.Format))
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		warnings = append(warnings, "server timeouts must not be negative; defaults will be used")
	}

	switch c.Cache.Backend {
	case "", constants.CacheBackendNone:
	case constants.CacheBackendMemory:
		if c.Cache.TTL <= 0 {
			warnings = append(warnings, "cache ttl is not positive; cached results will not expire")
		}
		if c.Cache.MaxEntries <= 0 {
			warnings = append(warnings, fmt.Sprintf("cache maxEntries is not positive; using %d", constants.DefaultCacheMaxEntries))
		}
	case constants.CacheBackendRedis:
		if c.Cache.Redis.Address == "" {
			warnings = append(warnings, "redis cache backend selected but cache.redis.address is empty; caching disabled")
		}
		if c.Cache.TTL <= 0 {
			warnings = append(warnings, "cache ttl is not positive; cached results will not expire")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown cache backend %q; caching disabled", c.Cache.Backend))
	}

	return warnings
}
