// Package report provides the report command, which fetches the stories
// of the configured features from Jira and writes them to features_path.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/storycheck/internal/appcontext"
	"github.com/agentstation/storycheck/internal/cmd/output"
	"github.com/agentstation/storycheck/internal/cmd/tracker"
	"github.com/agentstation/storycheck/pkg/constants"
	"github.com/agentstation/storycheck/pkg/errors"
)

// Flags holds the report command flags.
type Flags struct {
	SkipInvalid bool
	MaxResults  int
	Show        bool
	MaxRows     int
	Timeout     time.Duration
}

// NewCommand creates the report command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "report",
		GroupID: "core",
		Short:   "Fetch stories from Jira and save the report",
		Args:    cobra.NoArgs,
		Long: `Report fetches the stories of the configured features from Jira and
writes them to features_path without loading the Miro planning table.
The saved report can later be compared with 'storycheck check --from-report'.`,
		Example: `  storycheck report                     # Fetch and save
  storycheck report --show              # Also list the fetched stories
  storycheck report --show -o wide      # List with sprints and organisation`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ExecuteReport(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flags.SkipInvalid, "skip-invalid", false,
		"Skip issues that cannot be extracted instead of failing")
	cmd.Flags().IntVar(&flags.MaxResults, "max-results", 0,
		"Maximum number of issues to fetch (default from config, 1000)")
	cmd.Flags().BoolVar(&flags.Show, "show", false,
		"Print the fetched stories")
	cmd.Flags().IntVar(&flags.MaxRows, "max-rows", constants.DefaultMaxDisplayRows,
		"Maximum rows shown with --show (0 for all)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", constants.CommandTimeout,
		"Abort the Jira fetch after this long (0 for no limit)")

	return cmd
}

// ExecuteReport fetches and saves the report, then prints a summary line
// or, with --show, the stories themselves.
func ExecuteReport(ctx context.Context, app appcontext.Interface, flags *Flags, w io.Writer) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return errors.WrapValidation("format", err)
	}

	cfg, err := app.Config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if flags.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.Timeout)
		defer cancel()
	}

	r, err := tracker.Fetch(ctx, app, cfg, tracker.Options{
		MaxResults:  flags.MaxResults,
		SkipInvalid: flags.SkipInvalid,
		Dump:        true,
	})
	if err != nil {
		return err
	}

	if flags.Show {
		if err := output.WriteStories(w, r, format, flags.MaxRows); err != nil {
			return errors.WrapIO("write", "stdout", err)
		}
		return nil
	}

	_, err = fmt.Fprintf(w, "Saved %d %s to %s\n", len(r), noun(len(r)), cfg.FeaturesPath)
	return errors.WrapIO("write", "stdout", err)
}

func noun(n int) string {
	if n == 1 {
		return "story"
	}
	return "stories"
}
