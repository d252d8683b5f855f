// Package config loads libraryql settings from defaults, an optional YAML
// file, LIBRARYQL_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/getmockd/libraryql/pkg/logging"
)

// EnvPrefix prefixes environment variables, e.g. LIBRARYQL_SERVER_PORT.
const EnvPrefix = "LIBRARYQL"

// Config keys.
const (
	KeyServerHost            = "server.host"
	KeyServerPort            = "server.port"
	KeyServerPath            = "server.path"
	KeyServerReadTimeout     = "server.read_timeout"
	KeyServerWriteTimeout    = "server.write_timeout"
	KeyServerShutdownTimeout = "server.shutdown_timeout"
	KeyServerMaxBodySize     = "server.max_body_size"
	KeyCORSEnabled           = "server.cors.enabled"
	KeyCORSAllowOrigins      = "server.cors.allow_origins"
	KeyIntrospection         = "graphql.introspection"
	KeyGraphiQL              = "graphql.graphiql"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeySeedFile              = "seed.file"
)

// DefaultPort is the port the server listens on unless configured otherwise.
const DefaultPort = 5000

// Config is the complete libraryql configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	GraphQL GraphQLConfig `mapstructure:"graphql"`
	Log     LogConfig     `mapstructure:"log"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Path            string        `mapstructure:"path"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxBodySize limits GraphQL request bodies in bytes.
	MaxBodySize int64      `mapstructure:"max_body_size"`
	CORS        CORSConfig `mapstructure:"cors"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	// Enabled enables CORS handling. When false, no CORS headers are added.
	Enabled bool `mapstructure:"enabled"`
	// AllowOrigins specifies allowed origins. Use "*" for any origin.
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// GraphQLConfig holds GraphQL endpoint settings.
type GraphQLConfig struct {
	Introspection bool `mapstructure:"introspection"`
	GraphiQL      bool `mapstructure:"graphiql"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Logging converts the settings to a logging.Config.
func (l LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(l.Level)
	cfg.Format = logging.ParseFormat(l.Format)
	return cfg
}

// SeedConfig selects the initial store content.
type SeedConfig struct {
	// File is a YAML seed file. Empty means the built-in seed.
	File string `mapstructure:"file"`
}

// DefaultCORSOrigins are the origins allowed when none are configured.
func DefaultCORSOrigins() []string {
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyServerHost, "")
	v.SetDefault(KeyServerPort, DefaultPort)
	v.SetDefault(KeyServerPath, "/graphql")
	v.SetDefault(KeyServerReadTimeout, 30*time.Second)
	v.SetDefault(KeyServerWriteTimeout, 30*time.Second)
	v.SetDefault(KeyServerShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyServerMaxBodySize, 1<<20)
	v.SetDefault(KeyCORSEnabled, true)
	v.SetDefault(KeyCORSAllowOrigins, DefaultCORSOrigins())
	v.SetDefault(KeyIntrospection, true)
	v.SetDefault(KeyGraphiQL, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, string(logging.FormatText))
	v.SetDefault(KeySeedFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// ReadFile merges a YAML config file into v. An empty path looks for
// libraryql.yaml in the working directory and ignores its absence.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("libraryql")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// BindFlags binds command-line flags to config keys. Flags absent from fs are
// skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", flag, err)
		}
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	cfg, err := Load(New())
	if err != nil {
		panic(err)
	}
	return cfg
}
