// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than on
// the concrete App, so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/storycheck/internal/config"
	"github.com/agentstation/storycheck/pkg/report"
)

// Interface defines the application context interface that commands need.
type Interface interface {
	// Config returns the project configuration, loading it on first use.
	Config() (*config.Config, error)

	// Searcher returns the Jira search client for the configured server.
	Searcher() (report.Searcher, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
