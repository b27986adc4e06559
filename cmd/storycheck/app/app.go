// Package app provides the application context and dependency management
// for the storycheck CLI. It centralizes the command line settings, the
// logger and the lazily loaded project configuration and Jira client.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/storycheck/internal/config"
	"github.com/agentstation/storycheck/internal/jira"
	"github.com/agentstation/storycheck/internal/transport"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/report"
)

// App represents the storycheck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Command line settings
	config *Config

	logger *zerolog.Logger

	// Lazy-initialized project config and Jira client
	mu       sync.Mutex
	project  *config.Config
	searcher report.Searcher
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Settings returns the command line settings.
func (a *App) Settings() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Config loads the project configuration on first use.
func (a *App) Config() (*config.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadProject()
}

func (a *App) loadProject() (*config.Config, error) {
	if a.project != nil {
		return a.project, nil
	}

	cfg, err := config.Load(a.config.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		a.logger.Debug().Str("file", cfg.File).Msg("Loaded configuration")
	}

	a.project = cfg
	return cfg, nil
}

// Searcher returns the Jira client, creating it on first use.
func (a *App) Searcher() (report.Searcher, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.searcher != nil {
		return a.searcher, nil
	}

	cfg, err := a.loadProject()
	if err != nil {
		return nil, err
	}

	auth := transport.ForCredentials(cfg.JiraUser, cfg.JiraToken)
	client, err := jira.NewClient(cfg.Server, auth,
		jira.WithTransport(transport.New(auth, transport.WithUserAgent("storycheck/"+a.version))),
		jira.WithLogger(a.logger),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "jira client", cfg.Server, err)
	}

	a.searcher = client
	return client, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets custom command line settings.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithProject sets the project configuration instead of loading it.
func WithProject(cfg *config.Config) Option {
	return func(a *App) error {
		a.project = cfg
		return nil
	}
}

// WithSearcher sets a custom Jira searcher (useful for testing).
func WithSearcher(s report.Searcher) Option {
	return func(a *App) error {
		a.searcher = s
		return nil
	}
}
