// Package constants provides shared constants used throughout the storycheck codebase.
// This includes timeouts, limits, file permissions, and the Jira field ids
// of the deployment the tool was written for.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the tracker API
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultMaxResults caps the number of issues fetched in one run
	DefaultMaxResults = 1000

	// DefaultPageSize is the page size requested from the search endpoint
	DefaultPageSize = 100

	// DefaultMaxDisplayRows caps the rows printed per result table
	DefaultMaxDisplayRows = 100
)

// Tracker defaults
const (
	// DefaultExcludedStatus is excluded from the story query
	DefaultExcludedStatus = "Done"

	// FeatureLinkFieldID is the numeric id of the parent feature custom field
	FeatureLinkFieldID = 10702

	// TrackerName identifies the issue tracker in errors and logs
	TrackerName = "jira"
)
