package main

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huncholane/dothub/internal/hub"
)

const testRegistry = `nvim: https://github.com/a/b
zsh:
  - git@github.com:c/d.git
  - https://gitlab.com/e/f
`

func rowPattern(rank, stars, installed, source string) *regexp.Regexp {
	return regexp.MustCompile(`│\s*` + rank + `\s*│\s*` + stars + `\s*│\s*` + installed + `\s*│\s*` + regexp.QuoteMeta(source) + `\s*│`)
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	gh := &fakeGitHub{registry: testRegistry, stars: map[string]int{"a/b": 42, "c/d": 5}}
	gh.start(t, cfg)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.StoreDir, "d"), 0755))

	stdout, _, err := runCLI(t, cfg)
	require.NoError(t, err)

	assert.Regexp(t, rowPattern("1", "42", "n", "https://github.com/a/b"), stdout)
	assert.Regexp(t, rowPattern("2", "5", "y", "git@github.com:c/d.git"), stdout)
	assert.Regexp(t, rowPattern("3", "0", "n", "https://gitlab.com/e/f"), stdout)

	assert.Contains(t, stdout, "To improve performance, please set your DOTHUB_TEST_TOKEN_UNSET environment variable.")
	assert.Contains(t, stdout, "Learn more: https://github.com/settings/personal-access-tokens")
	assert.NotContains(t, stdout, "falling back to REST")
	assert.True(t, strings.HasSuffix(stdout, "Run dothub --help to see more options.\n"))
}

func TestCatalog_VerboseTracesRequests(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	gh := &fakeGitHub{registry: testRegistry, stars: map[string]int{"a/b": 42, "c/d": 5}}
	gh.start(t, cfg)

	_, stderr, err := runCLI(t, cfg, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "$ GET "+cfg.GitHub.APIURL+"/repos/a/b")
	assert.NotContains(t, stderr, "Downloading stars")
}

func TestIndicatorWriter(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	cmd.SetErr(io.Discard)
	assert.Equal(t, io.Discard, indicatorWriter(cmd, globalFlags{verbose: true}))
	assert.Equal(t, io.Discard, indicatorWriter(cmd, globalFlags{quiet: true}))
}

func TestCatalog_FilterTypes(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	gh := &fakeGitHub{registry: testRegistry, stars: map[string]int{"a/b": 42, "c/d": 5}}
	gh.start(t, cfg)

	stdout, _, err := runCLI(t, cfg, "ZSH")
	require.NoError(t, err)

	assert.NotContains(t, stdout, "https://github.com/a/b")
	assert.Regexp(t, rowPattern("1", "5", "n", "git@github.com:c/d.git"), stdout)
	assert.Regexp(t, rowPattern("2", "0", "n", "https://gitlab.com/e/f"), stdout)
}

func TestCatalog_URLFlag(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	(&fakeGitHub{}).start(t, cfg)

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tmux: https://gitlab.com/x/tmux\n"))
	}))
	t.Cleanup(other.Close)

	stdout, _, err := runCLI(t, cfg, "--url", other.URL)
	require.NoError(t, err)
	assert.Regexp(t, rowPattern("1", "0", "n", "https://gitlab.com/x/tmux"), stdout)
}

// Not parallel: sets the token environment variable.
func TestCatalog_BulkFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.TokenEnv = "DOTHUB_TEST_TOKEN"
	t.Setenv("DOTHUB_TEST_TOKEN", "secret")

	gh := &fakeGitHub{registry: testRegistry, stars: map[string]int{"a/b": 42, "c/d": 5}, failGraphQL: true}
	gh.start(t, cfg)

	stdout, _, err := runCLI(t, cfg)
	require.NoError(t, err)

	assert.Regexp(t, rowPattern("1", "42", "n", "https://github.com/a/b"), stdout)
	assert.Contains(t, stdout, "DOTHUB_TEST_TOKEN detected but GitHub GraphQL failed; falling back to REST.")
	assert.NotContains(t, stdout, "To improve performance")
}

func TestCatalog_FetchFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	cfg.HubURL = srv.URL

	stdout, _, err := runCLI(t, cfg)
	require.ErrorIs(t, err, hub.ErrFetch)
	assert.Empty(t, stdout)
	assert.Equal(t, fetchFailedMessage, errorMessage(err))
}

func TestCatalog_ParseFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	(&fakeGitHub{registry: "- not\n- a mapping\n"}).start(t, cfg)

	stdout, _, err := runCLI(t, cfg)
	require.ErrorIs(t, err, hub.ErrParse)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(errorMessage(err), "Error: "))
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fetchFailedMessage, errorMessage(errors.Join(hub.ErrFetch, errors.New("dial tcp"))))
	assert.Equal(t, "Error: boom", errorMessage(errors.New("boom")))
}
