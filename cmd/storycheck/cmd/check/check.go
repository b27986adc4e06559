package check

import (
	"context"
	"io"

	"github.com/agentstation/storycheck/internal/appcontext"
	"github.com/agentstation/storycheck/internal/cmd/output"
	"github.com/agentstation/storycheck/internal/cmd/tracker"
	"github.com/agentstation/storycheck/internal/config"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/planning"
	"github.com/agentstation/storycheck/pkg/reconcile"
	"github.com/agentstation/storycheck/pkg/report"
)

// ExecuteCheck runs the full pipeline and prints the result to w. Nothing
// is printed unless every step succeeds.
func ExecuteCheck(ctx context.Context, app appcontext.Interface, flags *Flags, w io.Writer) error {
	logger := app.Logger()

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

	stories, err := loadStories(ctx, app, cfg, flags)
	if err != nil {
		return err
	}

	plan, err := planning.LoadFile(cfg.MiroPath)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("path", cfg.MiroPath).
		Int("rows", len(plan)).
		Msg("Loaded planning table")

	result := reconcile.Reconcile(stories, plan)

	if err := output.WriteResult(w, result, format, flags.MaxRows); err != nil {
		return errors.WrapIO("write", "stdout", err)
	}

	logger.Info().
		Int("missing", len(result.Missing)).
		Int("mismatched", len(result.Mismatched)).
		Msg(result.Summary())
	return nil
}

// loadStories fetches the report from Jira or reads the saved dump.
func loadStories(ctx context.Context, app appcontext.Interface, cfg *config.Config, flags *Flags) (report.Report, error) {
	if flags.FromReport {
		r, err := report.LoadFile(cfg.FeaturesPath)
		if err != nil {
			return nil, err
		}
		app.Logger().Info().
			Str("path", cfg.FeaturesPath).
			Int("stories", len(r)).
			Msg("Loaded saved report")
		return r, nil
	}

	if flags.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.Timeout)
		defer cancel()
	}

	return tracker.Fetch(ctx, app, cfg, tracker.Options{
		MaxResults:  flags.MaxResults,
		SkipInvalid: flags.SkipInvalid,
		Dump:        !flags.NoDump,
	})
}
