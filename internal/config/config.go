// Package config loads the storycheck project configuration: which
// features to check, where the planning table and the report dump live,
// and how to reach the Jira server.
//
// Values come from a YAML file and from STORYCHECK_* environment variables,
// which win over the file. Jira credentials only come from the environment
// (JIRA_TOKEN, JIRA_USER), optionally through .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/storycheck/pkg/constants"
	pkgerrors "github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/stories"
)

// Environment variables read besides the STORYCHECK_* overrides.
const (
	EnvConfigPath = "CONFIG_PATH"
	EnvJiraToken  = "JIRA_TOKEN"
	EnvJiraUser   = "JIRA_USER"
	EnvPrefix     = "STORYCHECK"
)

// DefaultFileName is searched for in the working and home directories.
const DefaultFileName = "storycheck"

// keys lists every file key that may be overridden from the environment.
var keys = []string{
	"features",
	"miro_path",
	"features_path",
	"server",
	"max_results",
	"exclude_status",
	"fields.points",
	"fields.parent_feature",
	"fields.sprints",
	"fields.leading_work_group",
	"fields.organisation",
	"fields.organisation_code",
}

// Config is the project configuration. It is built once at start and
// passed explicitly; nothing reads global state after Load returns.
type Config struct {
	Features      []string         `mapstructure:"features"`
	MiroPath      string           `mapstructure:"miro_path"`
	FeaturesPath  string           `mapstructure:"features_path"`
	Server        string           `mapstructure:"server"`
	MaxResults    int              `mapstructure:"max_results"`
	ExcludeStatus string           `mapstructure:"exclude_status"`
	Fields        stories.FieldMap `mapstructure:"fields"`

	// JiraToken and JiraUser come from the environment only.
	JiraToken string `mapstructure:"-"`
	JiraUser  string `mapstructure:"-"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

// Load reads the configuration. The file is path when given, else
// $CONFIG_PATH, else storycheck.yaml in the working directory or
// .storycheck.yaml in the home directory. A missing file is only an error
// when it was named explicitly.
func Load(path string) (*Config, error) {
	LoadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, pkgerrors.NewConfigError("env", "failed to bind "+key, err)
		}
	}
	v.SetDefault("max_results", constants.DefaultMaxResults)
	v.SetDefault("exclude_status", constants.DefaultExcludedStatus)

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && !explicit:
			v.SetConfigName("." + DefaultFileName)
			if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
				return nil, readError(v.ConfigFileUsed(), err)
			}
		case errors.Is(err, fs.ErrNotExist):
			return nil, pkgerrors.NewConfigError("config", fmt.Sprintf("file %s does not exist", path), err)
		default:
			return nil, readError(path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, pkgerrors.NewConfigError("config", "invalid configuration values", err)
	}
	cfg.JiraToken = os.Getenv(EnvJiraToken)
	cfg.JiraUser = os.Getenv(EnvJiraUser)
	cfg.File = v.ConfigFileUsed()
	cfg.Fields = cfg.Fields.WithDefaults()
	cfg.resolvePaths()

	return cfg, nil
}

func readError(path string, err error) error {
	return pkgerrors.NewConfigError("config", "failed to read "+path, err)
}

// resolvePaths makes relative data paths relative to the config file.
func (c *Config) resolvePaths() {
	if c.File == "" {
		return
	}
	dir := filepath.Dir(c.File)
	for _, p := range []*string{&c.MiroPath, &c.FeaturesPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// LoadEnvFiles loads environment variables from .env files.
// .env.local overrides .env; neither overrides the real environment.
func LoadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.MiroPath == "" {
		errs = multierror.Append(errs, missing("miro_path"))
	}
	if c.FeaturesPath == "" {
		errs = multierror.Append(errs, missing("features_path"))
	}
	if c.MaxResults <= 0 {
		errs = multierror.Append(errs, pkgerrors.NewValidationError("max_results", c.MaxResults, "must be positive"))
	}
	ids := c.fieldIDs()
	for _, name := range slices.Sorted(maps.Keys(ids)) {
		id := ids[name]
		if _, ok := stories.CustomFieldID(id); !ok {
			errs = multierror.Append(errs, pkgerrors.NewValidationError("fields."+name, id, "must look like customfield_<id>"))
		}
	}
	return configError(errs)
}

// ValidateTracker checks the settings needed to query Jira.
func (c *Config) ValidateTracker() error {
	var errs *multierror.Error
	if len(c.Features) == 0 {
		errs = multierror.Append(errs, missing("features"))
	}
	if c.Server == "" {
		errs = multierror.Append(errs, missing("server"))
	} else if u, err := url.Parse(c.Server); err != nil || u.Scheme == "" || u.Host == "" {
		errs = multierror.Append(errs, pkgerrors.NewValidationError("server", c.Server, "must be an absolute URL"))
	}
	if c.JiraToken == "" {
		errs = multierror.Append(errs, pkgerrors.NewValidationError(EnvJiraToken, nil, "environment variable is not set"))
	}
	return configError(errs)
}

// FeatureFieldID returns the numeric id of the parent feature field, used
// to build the search query.
func (c *Config) FeatureFieldID() int {
	if id, ok := stories.CustomFieldID(c.Fields.ParentFeature); ok {
		return id
	}
	return constants.FeatureLinkFieldID
}

func (c *Config) fieldIDs() map[string]string {
	return map[string]string{
		"points":             c.Fields.Points,
		"parent_feature":     c.Fields.ParentFeature,
		"sprints":            c.Fields.Sprints,
		"leading_work_group": c.Fields.LeadingWorkGroup,
		"organisation":       c.Fields.Organisation,
		"organisation_code":  c.Fields.OrganisationCode,
	}
}

func missing(key string) error {
	return pkgerrors.NewValidationError(key, nil, "is required")
}

func configError(errs *multierror.Error) error {
	if errs.ErrorOrNil() == nil {
		return nil
	}
	errs.ErrorFormat = func(list []error) string {
		msgs := make([]string, len(list))
		for i, err := range list {
			msgs[i] = err.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return pkgerrors.NewConfigError("config", errs.Error(), errs)
}
