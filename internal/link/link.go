// Package link manages the symlinks that activate installed repositories,
// usually ~/.config/<name> -> <store>/<repo>.
package link

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTargetExists is returned when the target is a real file or directory
	// and replacing it was not forced.
	ErrTargetExists = errors.New("target already exists")

	// ErrNoLinkDir is returned by Active when the link directory is missing.
	ErrNoLinkDir = errors.New("link directory not found")
)

// Create points target at source. An existing symlink at target is replaced.
// An existing file or directory is only removed when force is set, since it
// may hold configuration that is not managed by dothub.
func Create(source, target string, force bool) error {
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("source repo not found: %s: %w", source, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed creating %s: %w", filepath.Dir(target), err)
	}

	info, err := os.Lstat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("accessing %s: %w", target, err)
	case info.Mode()&os.ModeSymlink != 0:
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("remove stale symlink: %w", err)
		}
	case !force:
		return fmt.Errorf("%w: %s (use --force to replace it)", ErrTargetExists, target)
	default:
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("removing existing %s: %w", target, err)
		}
	}

	if err := os.Symlink(source, target); err != nil {
		return fmt.Errorf("failed creating symlink %s -> %s: %w", target, source, err)
	}
	return nil
}

// Link is an active symlink into the store.
type Link struct {
	Name   string // entry name in the link directory
	Target string // resolved target inside the store
}

// Active lists the symlinks in linkDir whose resolved target lies inside
// storeDir, in directory order. Dangling links are resolved as far as
// possible and still reported when they point into the store.
func Active(linkDir, storeDir string) ([]Link, error) {
	entries, err := os.ReadDir(linkDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoLinkDir, linkDir)
		}
		return nil, fmt.Errorf("reading %s: %w", linkDir, err)
	}

	store := resolve(storeDir)

	var links []Link
	for _, e := range entries {
		if e.Type()&os.ModeSymlink == 0 {
			continue
		}

		path := filepath.Join(linkDir, e.Name())
		dest, err := os.Readlink(path)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(linkDir, dest)
		}

		resolved := resolve(dest)
		if within(resolved, store) {
			links = append(links, Link{Name: e.Name(), Target: resolved})
		}
	}
	return links, nil
}

// resolve follows symlinks, falling back to the cleaned path.
func resolve(path string) string {
	if r, err := filepath.EvalSymlinks(path); err == nil {
		return r
	}
	return filepath.Clean(path)
}

// within reports whether path is root or lies below it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
