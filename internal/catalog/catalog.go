// Package catalog merges star counts and install state onto registry entries
// and orders them by popularity.
package catalog

import (
	"cmp"
	"slices"

	"github.com/huncholane/dothub/internal/hub"
	"github.com/huncholane/dothub/internal/store"
)

// RankedEntry is a registry entry with its popularity and install state.
type RankedEntry struct {
	Rank      int // 1-based position in the ranking
	Type      string
	SourceURL string
	Stars     uint64
	Installed bool
}

// Rank attaches stars (0 when a URL is missing from the map) and the
// installed flag to each entry, then orders them by stars, most first.
// Entries with equal stars keep their registry order.
func Rank(entries []hub.Entry, stars map[string]uint64, installed func(name string) bool) []RankedEntry {
	ranked := make([]RankedEntry, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, RankedEntry{
			Type:      e.Type,
			SourceURL: e.SourceURL,
			Stars:     stars[e.SourceURL],
			Installed: installed != nil && installed(store.RepoName(e.SourceURL)),
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedEntry) int {
		return cmp.Compare(b.Stars, a.Stars)
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// URLs returns the source URL of every entry, in order.
func URLs(entries []hub.Entry) []string {
	urls := make([]string, len(entries))
	for i, e := range entries {
		urls[i] = e.SourceURL
	}
	return urls
}
