// Package check provides the check command, which reconciles the Jira
// stories of the configured features against the Miro planning table.
package check

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/storycheck/internal/appcontext"
)

// NewCommand creates the check command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Short:   "Compare Jira story points with the Miro planning table",
		Args:    cobra.NoArgs,
		Long: `Check fetches the stories of the configured features from Jira, writes
them to features_path, loads the Miro export at miro_path and prints two
tables:

• Stories that exist only in Jira or only in Miro
• Stories whose story points differ between Jira and Miro

With --from-report the saved report is used and Jira is not contacted.`,
		Example: `  storycheck check                      # Fetch, dump and compare
  storycheck check --from-report        # Compare against the last dump
  storycheck check --skip-invalid       # Drop issues that fail extraction
  storycheck check -o json              # Emit the result as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ExecuteCheck(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags = addCheckFlags(cmd)

	return cmd
}
