package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	ShowVersion bool
	Validate    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("STRUCTGEN_CONFIG", ""),
		"Path to configuration file, empty for defaults (env: STRUCTGEN_CONFIG)")
	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("STRUCTGEN_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: STRUCTGEN_LOG_LEVEL)")
	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("STRUCTGEN_LOG_FORMAT", "json"),
		"Log format: json, text (env: STRUCTGEN_LOG_FORMAT)")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	flag.Usage = printHelp
	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - I14Y data structure editor service

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run with built-in defaults
  %s

  # Run with a config file and text logging
  %s --config=/etc/structure-generator/config.yaml --log-format=text

  # Validate configuration only
  %s --config=config.yaml --validate

Version: %s
`, os.Args[0], os.Args[0], os.Args[0], Version)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
