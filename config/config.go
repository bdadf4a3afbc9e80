package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/i14y"
	"github.com/I14Y-ch/structure-generator/session"
)

// Config is the complete service configuration.
type Config struct {
	HTTP    HTTPConfig     `yaml:"http"`
	Logging LoggingConfig  `yaml:"logging"`
	NATS    NATSConfig     `yaml:"nats"`
	I14Y    i14y.Config    `yaml:"i14y"`
	Session session.Config `yaml:"session"`
}

// HTTPConfig defines the API server settings.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig defines log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// NATSConfig defines the optional snapshot persistence backend. When
// disabled the service keeps sessions in memory only.
type NATSConfig struct {
	Enabled       bool          `yaml:"enabled"`
	URL           string        `yaml:"url"`
	MaxReconnects int           `yaml:"max_reconnects"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		NATS: NATSConfig{
			Enabled:       false,
			URL:           "nats://localhost:4222",
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return serr.WrapInvalid(serr.ErrMissingConfig, "config", "Validate", "http.addr is required")
	}
	if _, _, err := net.SplitHostPort(c.HTTP.Addr); err != nil {
		return serr.WrapInvalid(err, "config", "Validate",
			fmt.Sprintf("http.addr %q is not host:port", c.HTTP.Addr))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return serr.WrapInvalid(serr.ErrInvalidConfig, "config", "Validate",
			fmt.Sprintf("logging.level %q (want debug, info, warn or error)", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return serr.WrapInvalid(serr.ErrInvalidConfig, "config", "Validate",
			fmt.Sprintf("logging.format %q (want json or text)", c.Logging.Format))
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		return serr.WrapInvalid(serr.ErrMissingConfig, "config", "Validate",
			"nats.url is required when nats is enabled")
	}

	return nil
}

// Loader reads YAML configuration layers in order, later files overriding
// earlier ones.
type Loader struct {
	layers []string
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{}
}

// AddLayer appends a configuration file. Missing files are skipped at load
// time so optional overrides can be listed unconditionally.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// Load merges defaults, the configured layers and environment overrides,
// then validates the result.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, serr.WrapTransient(err, "config", "Load", "read "+path)
		}
		// Decoding into the accumulated config keeps values a layer
		// does not mention.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, serr.WrapInvalid(err, "config", "Load", "parse "+path)
		}
	}

	l.applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRUCTGEN_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("STRUCTGEN_NATS_URL"); v != "" {
		cfg.NATS.Enabled = true
		cfg.NATS.URL = v
	}
	if v := os.Getenv("STRUCTGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
