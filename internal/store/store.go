// Package store manages the local directory of installed dotfile repositories.
//
// Every repository lives in <dir>/<name>, where name is derived from its
// clone URL by RepoName. The catalog only asks whether a name exists; install
// and update clone and pull with go-git.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// RepoName derives the local directory name from a repository URL:
// trailing "/" and ".git" are stripped and the last path segment is kept.
func RepoName(url string) string {
	trimmed := strings.TrimRight(url, "/")
	for strings.HasSuffix(trimmed, ".git") {
		trimmed = strings.TrimSuffix(trimmed, ".git")
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Store is a directory of cloned repositories.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is not created.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns where the repository called name lives.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether a repository called name is installed.
// Names that would escape the store (empty, ".", "..", containing a
// separator) are never installed.
func (s *Store) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	_, err := os.Stat(s.Path(name))
	return err == nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Ensure creates the store directory if it is missing.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("failed creating %s (need sudo?): %w", s.dir, err)
		}
		return fmt.Errorf("failed creating %s: %w", s.dir, err)
	}
	return nil
}

// List returns the sorted names of all directories in the store.
// A missing store is empty.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Suggest returns installed names that fuzzy-match name, best match first.
func (s *Store) Suggest(name string) []string {
	names, err := s.List()
	if err != nil || len(names) == 0 || name == "" {
		return nil
	}

	matches := fuzzy.Find(name, names)
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}
