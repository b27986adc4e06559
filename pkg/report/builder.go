// Package report builds the story report from the issue tracker and keeps
// it on disk as a YAML dump.
package report

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/agentstation/storycheck/pkg/constants"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/logging"
	"github.com/agentstation/storycheck/pkg/stories"
)

// Report is the ordered list of stories of one fetch.
type Report []stories.Story

// Keys returns the story keys in report order.
func (r Report) Keys() []string {
	keys := make([]string, len(r))
	for i, s := range r {
		keys[i] = s.Key
	}
	return keys
}

// Searcher runs a JQL search and returns at most maxResults issues in
// server order.
type Searcher interface {
	Search(ctx context.Context, jql string, maxResults int) ([]stories.Issue, error)
}

// Builder fetches issues and extracts one story per issue.
type Builder struct {
	searcher    Searcher
	extractor   *stories.Extractor
	maxResults  int
	skipInvalid bool
	logger      *zerolog.Logger
	skipped     *multierror.Error
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxResults caps the number of fetched issues.
func WithMaxResults(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxResults = n
		}
	}
}

// WithSkipInvalid makes Build drop issues that fail extraction instead of
// aborting. Dropped issues are logged and collected in Skipped.
func WithSkipInvalid(skip bool) Option {
	return func(b *Builder) {
		b.skipInvalid = skip
	}
}

// WithLogger sets the logger used for skipped issues.
func WithLogger(logger *zerolog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a report builder.
func NewBuilder(searcher Searcher, extractor *stories.Extractor, opts ...Option) *Builder {
	b := &Builder{
		searcher:   searcher,
		extractor:  extractor,
		maxResults: constants.DefaultMaxResults,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the query and extracts every returned issue, preserving server
// order. The first extraction failure aborts the build unless skipping is
// enabled.
func (b *Builder) Build(ctx context.Context, query Query) (Report, error) {
	b.skipped = nil

	if err := query.Validate(); err != nil {
		return nil, err
	}

	jql := query.JQL()
	b.logger.Debug().
		Str("jql", jql).
		Int("max_results", b.maxResults).
		Msg("Searching issues")

	issues, err := b.searcher.Search(ctx, jql, b.maxResults)
	if err != nil {
		return nil, errors.WrapResource("fetch", "issues", "", err)
	}

	report := make(Report, 0, len(issues))
	seen := make(map[string]bool, len(issues))
	for _, issue := range issues {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapCanceled(err)
		}
		if seen[issue.Key] {
			return nil, errors.NewValidationError("key", issue.Key, "issue returned more than once")
		}
		seen[issue.Key] = true

		story, err := b.extractor.Extract(issue)
		if err != nil {
			if !b.skipInvalid {
				return nil, err
			}
			issueCtx := logging.WithIssue(logging.WithLogger(ctx, b.logger), issue.Key)
			issueCtx = logging.WithError(issueCtx, err)
			logging.FromContext(issueCtx).Warn().Msg("Skipping issue")
			b.skipped = multierror.Append(b.skipped, err)
			continue
		}
		report = append(report, story)
	}

	b.logger.Debug().
		Int("issues", len(issues)).
		Int("stories", len(report)).
		Msg("Report built")
	return report, nil
}

// Skipped returns the extraction errors of the last Build, or nil when no
// issue was skipped.
func (b *Builder) Skipped() error {
	return b.skipped.ErrorOrNil()
}

// SkippedCount returns the number of issues dropped by the last Build.
func (b *Builder) SkippedCount() int {
	if b.skipped == nil {
		return 0
	}
	return len(b.skipped.Errors)
}
