package check

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/storycheck/pkg/constants"
)

// Flags holds the check command flags.
type Flags struct {
	FromReport  bool
	SkipInvalid bool
	MaxResults  int
	MaxRows     int
	NoDump      bool
	Timeout     time.Duration
}

func addCheckFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().BoolVar(&flags.FromReport, "from-report", false,
		"Reconcile against the saved report instead of fetching from Jira")
	cmd.Flags().BoolVar(&flags.SkipInvalid, "skip-invalid", false,
		"Skip issues that cannot be extracted instead of failing")
	cmd.Flags().IntVar(&flags.MaxResults, "max-results", 0,
		"Maximum number of issues to fetch (default from config, 1000)")
	cmd.Flags().IntVar(&flags.MaxRows, "max-rows", constants.DefaultMaxDisplayRows,
		"Maximum rows shown per table (0 for all)")
	cmd.Flags().BoolVar(&flags.NoDump, "no-dump", false,
		"Do not write the fetched report to features_path")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", constants.CommandTimeout,
		"Abort the Jira fetch after this long (0 for no limit)")

	cmd.MarkFlagsMutuallyExclusive("from-report", "skip-invalid")
	cmd.MarkFlagsMutuallyExclusive("from-report", "no-dump")

	return flags
}
