package main

import (
	"context"
	"fmt"
	"io"

	"github.com/huncholane/dothub/internal/catalog"
	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/github"
	"github.com/huncholane/dothub/internal/httpclient"
	"github.com/huncholane/dothub/internal/hub"
	"github.com/huncholane/dothub/internal/log"
	"github.com/huncholane/dothub/internal/output"
	"github.com/huncholane/dothub/internal/store"
	"github.com/huncholane/dothub/internal/ui/progress"
	"github.com/huncholane/dothub/internal/ui/static"
	"github.com/huncholane/dothub/internal/ui/styles"
)

const footer = "Run dothub --help to see more options."

type catalogOptions struct {
	types     []string
	hubURL    string    // overrides cfg.HubURL when set
	indicator io.Writer // where the lookup indicator is drawn
}

// runCatalog fetches the registry, looks up star counts and prints the
// ranked table. Only registry failures are fatal; unknown star counts show
// as 0.
func runCatalog(ctx context.Context, opts catalogOptions) error {
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	hubURL := cfg.HubURL
	if opts.hubURL != "" {
		hubURL = opts.hubURL
	}

	hc := httpclient.New(nil, cfg.UserAgent)

	text, err := hub.NewFetcher(hc).Fetch(ctx, hubURL)
	if err != nil {
		l.Debug("registry fetch failed", "url", hubURL, "error", err)
		return err
	}
	reg, err := hub.Parse([]byte(text))
	if err != nil {
		return fmt.Errorf("registry %s: %w", hubURL, err)
	}

	entries := reg.Flatten(hub.SplitFilters(opts.types))
	l.Debug("registry loaded", "url", hubURL, "types", len(reg.Types), "entries", len(entries))

	gh := github.NewClient(github.Options{
		APIURL:      cfg.GitHub.APIURL,
		GraphQLURL:  cfg.GitHub.GraphQLURL,
		Token:       cfg.Token(),
		ChunkSize:   cfg.GitHub.ChunkSize,
		Concurrency: cfg.GitHub.Concurrency,
		HTTP:        hc,
	})

	indicator := progress.NewIndicator(opts.indicator, "Downloading stars from github..")
	indicator.Start()
	res := gh.LookupStars(ctx, catalog.URLs(entries))
	indicator.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	ranked := catalog.Rank(entries, res.Stars, store.New(cfg.StoreDir).Exists)

	tokenEnv := cfg.TokenEnv
	if tokenEnv == "" {
		tokenEnv = config.DefaultTokenEnv
	}

	out.Print(static.RenderCatalog(ranked))
	if !gh.HasToken() {
		out.Println(styles.WarningStyle.Render(fmt.Sprintf(
			"To improve performance, please set your %s environment variable.\nLearn more: %s",
			tokenEnv, config.TokenHelpURL)))
	}
	if res.BulkFailed {
		out.Println(styles.WarningStyle.Render(fmt.Sprintf(
			"%s detected but GitHub GraphQL failed; falling back to REST.\nLearn more: %s",
			tokenEnv, config.TokenHelpURL)))
	}
	out.Println(footer)
	return nil
}
