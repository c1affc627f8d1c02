package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/huncholane/dothub/internal/log"
)

// ErrNoName is returned when no directory name can be derived from a URL.
var ErrNoName = errors.New("could not infer repository name from URL")

// Install clones url into the store. When a repository with the same name is
// already present nothing is cloned and existed is true. Clone progress is
// written to progress, which may be nil.
func (s *Store) Install(ctx context.Context, url string, progress io.Writer) (name string, existed bool, err error) {
	name = RepoName(url)
	if !validName(name) {
		return "", false, fmt.Errorf("%w: %s", ErrNoName, url)
	}

	if err := s.Ensure(); err != nil {
		return name, false, err
	}
	fl, err := s.lock(ctx)
	if err != nil {
		return name, false, err
	}
	defer fl.release()

	dest := s.Path(name)
	if _, err := os.Stat(dest); err == nil {
		return name, true, nil
	}

	l := log.FromContext(ctx)
	start := time.Now()
	done := l.Command("", "git", "clone", url, dest)
	_, err = git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:      url,
		Progress: progress,
	})
	done(time.Since(start))
	if err != nil {
		// Don't leave a half-written clone behind; it would count as installed.
		_ = os.RemoveAll(dest)
		return name, false, fmt.Errorf("git clone %s: %w", url, err)
	}

	return name, false, nil
}

// RepoError records a repository that failed to update.
type RepoError struct {
	Name string
	Err  error
}

func (e RepoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// UpdateResult summarises an Update run.
type UpdateResult struct {
	Updated []string
	Skipped []string // directories that are not git repositories
	Failed  []RepoError
}

// UpdateOptions configures Update.
type UpdateOptions struct {
	// Progress receives git's sideband output; may be nil.
	Progress io.Writer

	// OnRepo, if set, is called before each repository is processed.
	OnRepo func(done, total int, name string)
}

// Update fast-forwards every git repository in the store from its origin.
// A repository that is already up to date counts as updated. Per-repository
// failures are collected in the result and do not stop the run; the returned
// error is reserved for an unreadable store or a cancelled context.
func (s *Store) Update(ctx context.Context, opts UpdateOptions) (UpdateResult, error) {
	var res UpdateResult

	names, err := s.List()
	if err != nil || len(names) == 0 {
		return res, err
	}
	fl, err := s.lock(ctx)
	if err != nil {
		return res, err
	}
	defer fl.release()

	l := log.FromContext(ctx)
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if opts.OnRepo != nil {
			opts.OnRepo(i, len(names), name)
		}

		path := s.Path(name)
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			res.Skipped = append(res.Skipped, name)
			continue
		}

		start := time.Now()
		done := l.Command(path, "git", "pull", "--ff-only")
		err := pull(ctx, path, opts.Progress)
		done(time.Since(start))
		if err != nil {
			l.Debug("update failed", "repo", name, "error", err)
			res.Failed = append(res.Failed, RepoError{Name: name, Err: err})
			continue
		}
		res.Updated = append(res.Updated, name)
	}

	return res, nil
}

// pull fast-forwards the checked-out branch. go-git refuses non-fast-forward
// pulls, which is the --ff-only behaviour.
func pull(ctx context.Context, path string, progress io.Writer) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Progress:   progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}
