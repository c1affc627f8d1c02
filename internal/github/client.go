// Package github looks up repository star counts on GitHub.
//
// With a token, counts are fetched in bulk through the GraphQL API, one
// request per chunk of repositories. Without a token, or when any bulk
// request fails, one REST request is made per repository. Lookups are
// best-effort: an unknown count is reported as zero, never as an error.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/huncholane/dothub/internal/httpclient"
	"github.com/huncholane/dothub/internal/log"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultAPIURL      = "https://api.github.com"
	DefaultGraphQLURL  = "https://api.github.com/graphql"
	DefaultChunkSize   = 50
	DefaultConcurrency = 8
)

var (
	// ErrNotGitHub is returned for URLs Resolve cannot map to a repository.
	ErrNotGitHub = errors.New("not a github repository url")

	// ErrBulkQuery wraps every failure of the GraphQL bulk path.
	ErrBulkQuery = errors.New("github graphql query failed")
)

// Options configures a Client.
type Options struct {
	APIURL      string
	GraphQLURL  string
	Token       string // enables the GraphQL bulk path
	ChunkSize   int    // repositories per GraphQL request
	Concurrency int    // parallel REST requests
	HTTP        *httpclient.Client
}

// Client queries GitHub for star counts.
type Client struct {
	opts Options
	http *httpclient.Client
}

// NewClient creates a Client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = DefaultGraphQLURL
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	hc := opts.HTTP
	if hc == nil {
		hc = httpclient.New(nil, "dothub")
	}
	return &Client{opts: opts, http: hc}
}

// HasToken reports whether the bulk path is available.
func (c *Client) HasToken() bool {
	return c.opts.Token != ""
}

// RepoStars fetches the star count of one repository through the REST API.
func (c *Client) RepoStars(ctx context.Context, rawURL string) (uint64, error) {
	ref, ok := Resolve(rawURL)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotGitHub, rawURL)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s",
		strings.TrimRight(c.opts.APIURL, "/"), pathSegment(ref.Owner), pathSegment(ref.Repo))

	start := time.Now()
	done := log.FromContext(ctx).Command("", "GET", endpoint)
	body, err := c.http.Get(ctx, endpoint, http.Header{"Accept": {"application/vnd.github+json"}})
	done(time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("repository %s: %w", ref, err)
	}

	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("repository %s: response is not valid JSON", ref)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return 0, fmt.Errorf("repository %s: expected a JSON object", ref)
	}
	return starCount(doc.Get("stargazers_count")), nil
}

// starCount reads a non-negative integer, treating anything else as zero.
func starCount(r gjson.Result) uint64 {
	if r.Type != gjson.Number || r.Num < 0 {
		return 0
	}
	return r.Uint()
}

// pathSegment escapes a Ref part for a URL path without escaping it twice.
func pathSegment(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		s = u
	}
	return url.PathEscape(s)
}
