package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/huncholane/dothub/internal/log"
)

type resolvedURL struct {
	url string
	ref Ref
}

// alias names the i-th repository of a chunk in the GraphQL query.
func alias(i int) string {
	return "r" + strconv.Itoa(i)
}

// buildQuery requests the star count of every repository in chunk,
// each under its positional alias.
func buildQuery(chunk []resolvedURL) string {
	var b strings.Builder
	b.WriteString("query { ")
	for i, e := range chunk {
		fmt.Fprintf(&b, "%s: repository(owner: %s, name: %s) { stargazerCount } ",
			alias(i), stringLiteral(e.ref.Owner), stringLiteral(e.ref.Repo))
	}
	b.WriteString("}")
	return b.String()
}

// stringLiteral quotes s as a GraphQL string. JSON escapes are a subset of
// GraphQL's; invalid UTF-8 becomes U+FFFD.
func stringLiteral(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// BatchStars fetches star counts through the GraphQL API in chunks of
// ChunkSize. URLs that are not on GitHub are left out of the result.
// Any failed chunk fails the whole call and no partial result is returned.
func (c *Client) BatchStars(ctx context.Context, urls []string) (map[string]uint64, error) {
	l := log.FromContext(ctx)

	var entries []resolvedURL
	for _, u := range urls {
		if ref, ok := Resolve(u); ok {
			entries = append(entries, resolvedURL{url: u, ref: ref})
		}
	}

	out := make(map[string]uint64, len(entries))
	if len(entries) == 0 {
		return out, nil
	}

	header := http.Header{}
	if c.opts.Token != "" {
		header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	n := 0
	for chunk := range slices.Chunk(entries, c.opts.ChunkSize) {
		n++
		l.Debug("querying star counts", "chunk", n, "repos", len(chunk))

		start := time.Now()
		done := l.Command("", "POST", c.opts.GraphQLURL)
		body, err := c.http.PostJSON(ctx, c.opts.GraphQLURL, map[string]string{"query": buildQuery(chunk)}, header)
		done(time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %w", ErrBulkQuery, n, err)
		}

		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("%w: chunk %d: response is not valid JSON", ErrBulkQuery, n)
		}
		data := gjson.GetBytes(body, "data")
		if !data.IsObject() {
			msg := gjson.GetBytes(body, "errors.0.message").String()
			if msg == "" {
				msg = "response has no data"
			}
			return nil, fmt.Errorf("%w: chunk %d: %s", ErrBulkQuery, n, msg)
		}

		for i, e := range chunk {
			// A missing or null alias (renamed or deleted repository) counts as zero.
			out[e.url] = starCount(data.Get(alias(i) + ".stargazerCount"))
		}
	}

	return out, nil
}
