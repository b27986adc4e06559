// Package jira searches issues through the Jira REST API v2.
package jira

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/storycheck/internal/transport"
	"github.com/agentstation/storycheck/pkg/constants"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/logging"
	"github.com/agentstation/storycheck/pkg/stories"
)

const searchPath = "/rest/api/2/search"

// Client is a read-only Jira search client.
type Client struct {
	baseURL  string
	http     *transport.Client
	pageSize int
	log      *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithPageSize sets how many issues are requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.http = t
		}
	}
}

// NewClient creates a client for the Jira server at baseURL.
func NewClient(baseURL string, auth transport.Authenticator, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewValidationError("server", baseURL, "must be an absolute URL")
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     transport.New(auth),
		pageSize: constants.DefaultPageSize,
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// searchPage is one page of the search response.
type searchPage struct {
	StartAt    int             `json:"startAt"`
	MaxResults int             `json:"maxResults"`
	Total      int             `json:"total"`
	Issues     []stories.Issue `json:"issues"`
}

// Search returns at most maxResults issues matching jql in server order.
// Pages are requested until the cap is reached or the server has no more.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) ([]stories.Issue, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, errors.NewValidationError("jql", jql, "must not be empty")
	}
	if maxResults <= 0 {
		return nil, errors.NewValidationError("max_results", maxResults, "must be positive")
	}

	issues := make([]stories.Issue, 0)
	for len(issues) < maxResults {
		want := min(c.pageSize, maxResults-len(issues))
		page, err := c.searchPage(ctx, jql, len(issues), want)
		if err != nil {
			return nil, err
		}

		issues = append(issues, page.Issues...)
		c.log.Debug().
			Int("start_at", page.StartAt).
			Int("received", len(page.Issues)).
			Int("total", page.Total).
			Msg("Fetched search page")

		if len(page.Issues) == 0 || page.StartAt+len(page.Issues) >= page.Total {
			break
		}
	}

	if len(issues) > maxResults {
		issues = issues[:maxResults]
	}
	return issues, nil
}

func (c *Client) searchPage(ctx context.Context, jql string, startAt, maxResults int) (*searchPage, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("fields", "*all")

	resp, err := c.http.Get(ctx, c.apiURL(searchPath, q))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.WrapCanceled(ctxErr)
		}
		return nil, errors.WrapAPI(constants.TrackerName, c.baseURL+searchPath, err)
	}

	var page searchPage
	if err := transport.DecodeResponse(resp, constants.TrackerName, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) apiURL(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
