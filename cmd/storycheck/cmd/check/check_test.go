package check

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/storycheck/internal/appcontext"
	"github.com/agentstation/storycheck/internal/cmd/output"
	"github.com/agentstation/storycheck/internal/config"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/logging"
	"github.com/agentstation/storycheck/pkg/reconcile"
	"github.com/agentstation/storycheck/pkg/report"
	"github.com/agentstation/storycheck/pkg/stories"
)

type fakeSearcher struct {
	issues []stories.Issue
	err    error
	calls  int
	jql    string
}

func (f *fakeSearcher) Search(_ context.Context, jql string, _ int) ([]stories.Issue, error) {
	f.calls++
	f.jql = jql
	return f.issues, f.err
}

func loadIssues(t *testing.T) []stories.Issue {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "issues.json"))
	require.NoError(t, err)

	var issues []stories.Issue
	require.NoError(t, json.Unmarshal(data, &issues))
	return issues
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Features:      []string{"F-1", "F-2"},
		MiroPath:      filepath.Join("testdata", "miro.csv"),
		FeaturesPath:  filepath.Join(t.TempDir(), "features.yaml"),
		Server:        "https://jira.example.com",
		MaxResults:    1000,
		ExcludeStatus: "Done",
		Fields:        stories.DefaultFieldMap(),
		JiraToken:     "secret",
	}
}

func testApp(cfg *config.Config, searcher report.Searcher, format string, logger *zerolog.Logger) *appcontext.Mock {
	return &appcontext.Mock{
		ConfigFunc:       func() (*config.Config, error) { return cfg, nil },
		SearcherFunc:     func() (report.Searcher, error) { return searcher, nil },
		OutputFormatFunc: func() string { return format },
		LoggerFunc:       func() *zerolog.Logger { return logger },
	}
}

func defaultFlags() *Flags {
	return &Flags{MaxRows: 100}
}

func TestExecuteCheckTable(t *testing.T) {
	cfg := testConfig(t)
	searcher := &fakeSearcher{issues: loadIssues(t)}
	logger := logging.NewTestLogger(t)
	app := testApp(cfg, searcher, "", logger.Logger)

	var out bytes.Buffer
	require.NoError(t, ExecuteCheck(context.Background(), app, defaultFlags(), &out))

	text := out.String()
	missingAt := strings.Index(text, output.HeadingMissing)
	mismatchAt := strings.Index(text, output.HeadingMismatched)
	require.GreaterOrEqual(t, missingAt, 0)
	require.Greater(t, mismatchAt, missingAt)

	missing := text[missingAt:mismatchAt]
	assert.Contains(t, missing, "ABC-4")
	assert.Contains(t, missing, "Only on the board")
	assert.NotContains(t, missing, "ABC-1")

	mismatched := text[mismatchAt:]
	assert.Contains(t, mismatched, "ABC-2")
	assert.Contains(t, mismatched, "https://jira.example.com/browse/ABC-2")
	assert.NotContains(t, mismatched, "ABC-3")

	assert.Equal(t, 1, searcher.calls)
	assert.Contains(t, searcher.jql, `cf[10702] in ("F-1","F-2")`)
	assert.FileExists(t, cfg.FeaturesPath)
	logger.AssertContains(t, "Fetched stories from Jira")
}

func TestExecuteCheckJSON(t *testing.T) {
	cfg := testConfig(t)
	app := testApp(cfg, &fakeSearcher{issues: loadIssues(t)}, "json", logging.NewNopLogger())

	var out bytes.Buffer
	require.NoError(t, ExecuteCheck(context.Background(), app, defaultFlags(), &out))

	var result reconcile.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	require.Len(t, result.Missing, 1)
	assert.Equal(t, "ABC-4", result.Missing[0].Key())
	assert.Nil(t, result.Missing[0].TrackerKey)

	require.Len(t, result.Mismatched, 1)
	assert.Equal(t, "ABC-2", result.Mismatched[0].Key)
	assert.Equal(t, 8.0, *result.Mismatched[0].PlanPoints)
	assert.Equal(t, 5.0, *result.Mismatched[0].TrackerPoints)

	assert.Equal(t, 3, result.Stats.TrackerStories)
	assert.Equal(t, 4, result.Stats.PlanRows)
}

func TestExecuteCheckFromReport(t *testing.T) {
	cfg := testConfig(t)
	app := testApp(cfg, &fakeSearcher{issues: loadIssues(t)}, "json", logging.NewNopLogger())

	var fetched bytes.Buffer
	require.NoError(t, ExecuteCheck(context.Background(), app, defaultFlags(), &fetched))

	offline := &fakeSearcher{err: errors.New("must not be called")}
	app = testApp(cfg, offline, "json", logging.NewNopLogger())

	flags := defaultFlags()
	flags.FromReport = true

	var saved bytes.Buffer
	require.NoError(t, ExecuteCheck(context.Background(), app, flags, &saved))

	assert.Zero(t, offline.calls)
	assert.JSONEq(t, fetched.String(), saved.String())
}

func TestExecuteCheckNoDump(t *testing.T) {
	cfg := testConfig(t)
	app := testApp(cfg, &fakeSearcher{issues: loadIssues(t)}, "yaml", logging.NewNopLogger())

	flags := defaultFlags()
	flags.NoDump = true

	var out bytes.Buffer
	require.NoError(t, ExecuteCheck(context.Background(), app, flags, &out))
	assert.Contains(t, out.String(), "mismatched:")
	assert.NoFileExists(t, cfg.FeaturesPath)
}

func TestExecuteCheckErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config, s *fakeSearcher, flags *Flags)
		format string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "invalid format",
			format: "xml",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsValidationError(err))
			},
		},
		{
			name: "missing token",
			mutate: func(cfg *config.Config, _ *fakeSearcher, _ *Flags) {
				cfg.JiraToken = ""
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "JIRA_TOKEN")
			},
		},
		{
			name: "missing planning table",
			mutate: func(cfg *config.Config, _ *fakeSearcher, _ *Flags) {
				cfg.MiroPath = filepath.Join(t.TempDir(), "absent.csv")
			},
			check: func(t *testing.T, err error) {
				var ioErr *errors.IOError
				assert.True(t, errors.As(err, &ioErr))
			},
		},
		{
			name: "tracker unavailable",
			mutate: func(_ *config.Config, s *fakeSearcher, _ *Flags) {
				s.err = errors.NewAPIError("jira", 503, "maintenance")
			},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsUnavailable(err))
			},
		},
		{
			name: "missing saved report",
			mutate: func(_ *config.Config, _ *fakeSearcher, flags *Flags) {
				flags.FromReport = true
			},
			check: func(t *testing.T, err error) {
				var ioErr *errors.IOError
				assert.True(t, errors.As(err, &ioErr))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			searcher := &fakeSearcher{issues: loadIssues(t)}
			flags := defaultFlags()
			if tt.mutate != nil {
				tt.mutate(cfg, searcher, flags)
			}

			var out bytes.Buffer
			err := ExecuteCheck(context.Background(), testApp(cfg, searcher, tt.format, logging.NewNopLogger()), flags, &out)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, out.String())
		})
	}
}

func TestExecuteCheckSkipInvalid(t *testing.T) {
	issues := loadIssues(t)
	issues[1].Fields.Created = "yesterday"

	t.Run("fails by default", func(t *testing.T) {
		app := testApp(testConfig(t), &fakeSearcher{issues: issues}, "json", logging.NewNopLogger())
		err := ExecuteCheck(context.Background(), app, defaultFlags(), &bytes.Buffer{})
		assert.True(t, errors.IsMalformed(err))
	})

	t.Run("skips when asked", func(t *testing.T) {
		logger := logging.NewTestLogger(t)
		app := testApp(testConfig(t), &fakeSearcher{issues: issues}, "json", logger.Logger)
		flags := defaultFlags()
		flags.SkipInvalid = true

		var out bytes.Buffer
		require.NoError(t, ExecuteCheck(context.Background(), app, flags, &out))

		var result reconcile.Result
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, 2, result.Stats.TrackerStories)
		require.Len(t, result.Missing, 2)
		assert.Equal(t, "ABC-2", result.Missing[0].Key())
		logger.AssertContains(t, "Skipping issue")
	})
}

func TestNewCommandFlags(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})

	for _, name := range []string{"from-report", "skip-invalid", "max-results", "max-rows", "no-dump", "timeout"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "100", cmd.Flags().Lookup("max-rows").DefValue)

	cmd.SetArgs([]string{"--from-report", "--no-dump"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
