package app

import (
	"os"

	"github.com/agentstation/storycheck/internal/config"
)

// Config holds the command line settings. The project settings (features,
// paths, Jira server) live in internal/config and are loaded on demand.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// ConfigFile is the project config file named with --config.
	ConfigFile string

	// Logging configuration. LogLevel comes from --log-level and
	// EnvLogLevel from LOG_LEVEL, which ranks below -v and -q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig reads the defaults for the command line settings from the
// environment, after loading any .env files.
func LoadConfig() (*Config, error) {
	config.LoadEnvFiles()

	return &Config{
		NoColor:     os.Getenv("NO_COLOR") != "",
		Format:      os.Getenv("STORYCHECK_FORMAT"),
		ConfigFile:  os.Getenv(config.EnvConfigPath),
		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over the environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
