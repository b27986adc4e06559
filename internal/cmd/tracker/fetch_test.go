package tracker

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/storycheck/internal/appcontext"
	"github.com/agentstation/storycheck/internal/config"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/logging"
	"github.com/agentstation/storycheck/pkg/report"
	"github.com/agentstation/storycheck/pkg/stories"
)

const issueJSON = `{
  "key": "ABC-1",
  "fields": {
    "summary": "Import the board export",
    "issuetype": {"name": "Story"},
    "created": "2024-03-01T10:15:30.000+0000",
    "updated": "2024-03-02T09:00:00.000+0000",
    "creator": {"displayName": "Jane Doe"},
    "reporter": {"displayName": "Jane Doe"},
    "customfield_10708": 3
  }
}`

type fakeSearcher struct {
	issues     []stories.Issue
	maxResults int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, maxResults int) ([]stories.Issue, error) {
	f.maxResults = maxResults
	return f.issues, nil
}

func setup(t *testing.T) (*appcontext.Mock, *config.Config, *fakeSearcher, *logging.TestLogger) {
	t.Helper()

	var issue stories.Issue
	require.NoError(t, json.Unmarshal([]byte(issueJSON), &issue))

	cfg := &config.Config{
		Features:      []string{"F-1"},
		FeaturesPath:  filepath.Join(t.TempDir(), "features.yaml"),
		Server:        "https://jira.example.com",
		MaxResults:    1000,
		ExcludeStatus: "Done",
		Fields:        stories.DefaultFieldMap(),
		JiraToken:     "secret",
	}
	searcher := &fakeSearcher{issues: []stories.Issue{issue}}
	logger := logging.NewTestLogger(t)
	app := &appcontext.Mock{
		ConfigFunc:   func() (*config.Config, error) { return cfg, nil },
		SearcherFunc: func() (report.Searcher, error) { return searcher, nil },
		LoggerFunc:   func() *zerolog.Logger { return logger.Logger },
	}
	return app, cfg, searcher, logger
}

func TestFetch(t *testing.T) {
	app, cfg, searcher, logger := setup(t)

	r, err := Fetch(context.Background(), app, cfg, Options{MaxResults: 5, Dump: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC-1"}, r.Keys())
	assert.Equal(t, 5, searcher.maxResults)

	logger.AssertContains(t, "Fetched stories from Jira")
	logger.AssertContains(t, `"operation":"fetch"`)
	logger.AssertContains(t, `"features":["F-1"]`)
	logger.AssertContains(t, `"max_results":5`)
	logger.AssertContains(t, `"took":`)

	saved, err := report.LoadFile(cfg.FeaturesPath)
	require.NoError(t, err)
	assert.Equal(t, r.Keys(), saved.Keys())
	require.NotNil(t, saved[0].Points)
	assert.Equal(t, 3.0, *saved[0].Points)
}

func TestFetchCanceled(t *testing.T) {
	app, cfg, _, logger := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fetch(ctx, app, cfg, Options{Dump: true})
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.ErrorIs(t, err, context.Canceled)

	logger.AssertContains(t, "Fetch canceled")
	assert.NoFileExists(t, cfg.FeaturesPath)
}

func TestFetchRequiresTracker(t *testing.T) {
	app, cfg, _, _ := setup(t)
	cfg.Server = ""

	_, err := Fetch(context.Background(), app, cfg, Options{})
	assert.Error(t, err)
}
