// Package tracker runs the fetch step shared by the check and report
// commands.
package tracker

import (
	"context"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/storycheck/internal/appcontext"
	"github.com/agentstation/storycheck/internal/config"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/logging"
	"github.com/agentstation/storycheck/pkg/report"
	"github.com/agentstation/storycheck/pkg/save"
	"github.com/agentstation/storycheck/pkg/stories"
)

// Options tune the fetch.
type Options struct {
	// MaxResults overrides the configured cap when positive.
	MaxResults int

	// SkipInvalid drops issues that fail extraction instead of aborting.
	SkipInvalid bool

	// Dump writes the report to the configured features path.
	Dump bool
}

// Fetch queries Jira for the configured features and builds the report.
func Fetch(ctx context.Context, app appcontext.Interface, cfg *config.Config, opts Options) (report.Report, error) {
	logger := app.Logger()

	if err := cfg.ValidateTracker(); err != nil {
		return nil, err
	}
	searcher, err := app.Searcher()
	if err != nil {
		return nil, err
	}

	maxResults := cfg.MaxResults
	if opts.MaxResults > 0 {
		maxResults = opts.MaxResults
	}

	builder := report.NewBuilder(searcher,
		stories.NewExtractor(cfg.Server, cfg.Fields),
		report.WithMaxResults(maxResults),
		report.WithSkipInvalid(opts.SkipInvalid),
		report.WithLogger(logger),
	)
	query := report.Query{
		Features:      cfg.Features,
		FeatureField:  cfg.FeatureFieldID(),
		ExcludeStatus: cfg.ExcludeStatus,
	}

	ctx = logging.WithOperation(logging.WithLogger(ctx, logger), "fetch")
	ctx = logging.WithFields(ctx, map[string]any{
		"features":    cfg.Features,
		"max_results": maxResults,
	})

	start := utc.Now()
	r, err := builder.Build(ctx, query)
	if err != nil {
		if errors.IsCanceled(err) {
			logging.FromContext(ctx).Warn().
				Dur("after", time.Since(start.Time)).
				Msg("Fetch canceled, raise --timeout for large feature sets")
		}
		return nil, err
	}
	logFetch(logging.FromContext(ctx), r, builder, time.Since(start.Time))

	if opts.Dump {
		if err := Dump(r, cfg.FeaturesPath); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", cfg.FeaturesPath).Msg("Report written")
	}
	return r, nil
}

// Dump writes the report to path, picking the format by extension.
func Dump(r report.Report, path string) error {
	err := r.Save(
		save.WithPath(path),
		save.WithFormat(save.FormatFromPath(path, save.FormatYAML)),
	)
	if err != nil {
		return errors.WrapResource("save", "report", path, err)
	}
	return nil
}

func logFetch(logger *zerolog.Logger, r report.Report, b *report.Builder, took time.Duration) {
	event := logger.Info().
		Int("stories", len(r)).
		Dur("took", took)
	if n := b.SkippedCount(); n > 0 {
		event = event.Int("skipped", n)
	}
	event.Msg("Fetched stories from Jira")
}
