package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/storycheck/internal/transport"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/logging"
)

// fakeJira serves total issues, honouring startAt and maxResults up to
// limit issues per page.
type fakeJira struct {
	total int
	limit int

	mu       sync.Mutex
	requests []*http.Request
}

func (f *fakeJira) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()

	if r.URL.Path != "/rest/api/2/search" {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	startAt, _ := strconv.Atoi(q.Get("startAt"))
	maxResults, _ := strconv.Atoi(q.Get("maxResults"))
	if f.limit > 0 && maxResults > f.limit {
		maxResults = f.limit
	}

	issues := make([]map[string]any, 0)
	for i := startAt; i < f.total && len(issues) < maxResults; i++ {
		issues = append(issues, map[string]any{
			"key":    fmt.Sprintf("ABC-%d", i+1),
			"fields": map[string]any{"summary": fmt.Sprintf("Story %d", i+1)},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"startAt":    startAt,
		"maxResults": maxResults,
		"total":      f.total,
		"issues":     issues,
	})
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithLogger(logging.NewNopLogger())}, opts...)
	c, err := NewClient(server.URL+"/", &transport.BearerAuth{Token: "pat"}, opts...)
	require.NoError(t, err)
	return c
}

func TestSearchSinglePage(t *testing.T) {
	fake := &fakeJira{total: 3}
	c := newTestClient(t, fake)

	issues, err := c.Search(context.Background(), `cf[10702] in ("F-1")`, 1000)
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, "ABC-1", issues[0].Key)
	assert.Equal(t, "Story 3", issues[2].Fields.Summary)

	require.Len(t, fake.requests, 1)
	q := fake.requests[0].URL.Query()
	assert.Equal(t, `cf[10702] in ("F-1")`, q.Get("jql"))
	assert.Equal(t, "0", q.Get("startAt"))
	assert.Equal(t, "100", q.Get("maxResults"))
	assert.Equal(t, "*all", q.Get("fields"))
	assert.Equal(t, "Bearer pat", fake.requests[0].Header.Get("Authorization"))
}

func TestSearchPagesUntilTotal(t *testing.T) {
	fake := &fakeJira{total: 250}
	c := newTestClient(t, fake)

	issues, err := c.Search(context.Background(), "project = ABC", 1000)
	require.NoError(t, err)
	assert.Len(t, issues, 250)
	assert.Equal(t, "ABC-250", issues[249].Key)
	assert.Len(t, fake.requests, 3)
}

func TestSearchStopsAtCap(t *testing.T) {
	fake := &fakeJira{total: 2500}
	c := newTestClient(t, fake, WithPageSize(300))

	issues, err := c.Search(context.Background(), "project = ABC", 1000)
	require.NoError(t, err)
	assert.Len(t, issues, 1000)
	assert.Equal(t, "ABC-1000", issues[999].Key)

	require.Len(t, fake.requests, 4)
	assert.Equal(t, "100", fake.requests[3].URL.Query().Get("maxResults"))
}

func TestSearchServerPageLimit(t *testing.T) {
	fake := &fakeJira{total: 120, limit: 50}
	c := newTestClient(t, fake)

	issues, err := c.Search(context.Background(), "project = ABC", 1000)
	require.NoError(t, err)
	assert.Len(t, issues, 120)
	assert.Len(t, fake.requests, 3)
	assert.Equal(t, "100", fake.requests[2].URL.Query().Get("startAt"))
}

func TestSearchEmpty(t *testing.T) {
	c := newTestClient(t, &fakeJira{})

	issues, err := c.Search(context.Background(), "project = ABC", 10)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestSearchFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/search.json")
	require.NoError(t, err)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))

	issues, err := c.Search(context.Background(), "project = ABC", 1000)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	var points float64
	ok, err := issues[0].Fields.DecodeCustom("customfield_10708", &points)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, points)
	require.NotNil(t, issues[0].Fields.Assignee)
	assert.Nil(t, issues[1].Fields.Assignee)
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, errors.IsUnauthorized},
		{"forbidden", http.StatusForbidden, errors.IsUnauthorized},
		{"rate limited", http.StatusTooManyRequests, errors.IsRateLimited},
		{"server error", http.StatusBadGateway, errors.IsUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
			}))

			_, err := c.Search(context.Background(), "project = ABC", 10)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestSearchTimeout(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	c := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Search(ctx, "project = ABC", 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, errors.IsCanceled(err))
}

func TestSearchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(&fakeJira{})
	baseURL := server.URL
	server.Close()

	c, err := NewClient(baseURL, nil, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "project = ABC", 10)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "jira", apiErr.Service)
	assert.Equal(t, baseURL+"/rest/api/2/search", apiErr.Endpoint)
	assert.Zero(t, apiErr.StatusCode)
	assert.False(t, errors.IsCanceled(err))
}

func TestSearchValidation(t *testing.T) {
	c := newTestClient(t, &fakeJira{})

	_, err := c.Search(context.Background(), " ", 10)
	assert.True(t, errors.IsValidationError(err))

	_, err = c.Search(context.Background(), "project = ABC", 0)
	assert.True(t, errors.IsValidationError(err))
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("jira.example.com", nil)
	assert.True(t, errors.IsValidationError(err))
}
