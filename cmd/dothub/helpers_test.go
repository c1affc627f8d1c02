package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/output"
)

// testConfig returns a config whose store and link directories live in a
// temp dir and which reads no token.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := resolvePath(t, t.TempDir())
	cfg := config.Default()
	cfg.StoreDir = filepath.Join(dir, "store")
	cfg.LinkDir = filepath.Join(dir, "config")
	cfg.TokenEnv = "DOTHUB_TEST_TOKEN_UNSET"
	return &cfg
}

// runCLI executes the command tree with args and returns stdout and stderr
// with ANSI styling removed.
func runCLI(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	ctx := config.WithConfig(t.Context(), cfg)
	ctx = output.WithPrinter(ctx, &stdout)
	err := execute(ctx, args, &stderr)
	return ansi.Strip(stdout.String()), ansi.Strip(stderr.String()), err
}

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupSourceRepo creates a git repository dir/name with one commit and
// returns its file:// URL.
func setupSourceRepo(t *testing.T, name string) string {
	t.Helper()

	repoPath := filepath.Join(resolvePath(t, t.TempDir()), name)
	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# "+name+"\n"), 0644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("failed to add README: %v", err)
	}
	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@test.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return "file://" + repoPath
}

// fakeGitHub serves registry, REST and GraphQL endpoints.
type fakeGitHub struct {
	registry    string
	stars       map[string]int // "owner/repo" -> stars
	failGraphQL bool
}

func (f *fakeGitHub) start(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /hub.yml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, f.registry)
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		n, ok := f.stars[r.PathValue("owner")+"/"+r.PathValue("repo")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"stargazers_count": %d}`, n)
	})
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		if f.failGraphQL {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		http.Error(w, "not implemented", http.StatusNotImplemented)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg.HubURL = srv.URL + "/hub.yml"
	cfg.GitHub.APIURL = srv.URL
	cfg.GitHub.GraphQLURL = srv.URL + "/graphql"
	return srv
}
