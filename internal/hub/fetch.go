package hub

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/huncholane/dothub/internal/httpclient"
)

// ErrFetch wraps every failure to retrieve the registry document.
var ErrFetch = errors.New("fetch registry")

// Fetcher retrieves the raw registry text. There are no retries: without a
// registry there is nothing to show.
type Fetcher struct {
	client *httpclient.Client
}

// NewFetcher creates a Fetcher using client.
func NewFetcher(client *httpclient.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch GETs url and returns the body as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.client.Get(ctx, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: %s: body is not valid UTF-8 text", ErrFetch, url)
	}
	return string(body), nil
}
