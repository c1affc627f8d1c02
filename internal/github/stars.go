package github

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/huncholane/dothub/internal/log"
)

// Result is the outcome of LookupStars.
type Result struct {
	// Stars maps source URL to star count. Unknown counts are zero.
	Stars map[string]uint64

	// BulkFailed is set when the GraphQL path failed and REST was used instead.
	BulkFailed bool
	BulkErr    error
}

// LookupStars resolves star counts for urls and never fails.
//
// With a token the GraphQL bulk path is tried first; on any failure its
// partial results are discarded and every URL is looked up through REST.
// Without a token REST is used directly. Individual REST failures become zero.
func (c *Client) LookupStars(ctx context.Context, urls []string) Result {
	l := log.FromContext(ctx)

	if c.HasToken() {
		stars, err := c.BatchStars(ctx, urls)
		if err == nil {
			return Result{Stars: stars}
		}
		l.Debug("bulk star lookup failed, falling back to REST", "error", err)
		return Result{
			Stars:      c.restStars(ctx, urls),
			BulkFailed: true,
			BulkErr:    err,
		}
	}

	return Result{Stars: c.restStars(ctx, urls)}
}

// restStars looks up every URL in parallel, bounded by Concurrency.
func (c *Client) restStars(ctx context.Context, urls []string) map[string]uint64 {
	l := log.FromContext(ctx)

	counts := make([]uint64, len(urls))
	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			n, err := c.RepoStars(ctx, u)
			if err != nil {
				l.Debug("star lookup failed", "url", u, "error", err)
				return nil
			}
			counts[i] = n
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]uint64, len(urls))
	for i, u := range urls {
		out[u] = counts[i]
	}
	return out
}
