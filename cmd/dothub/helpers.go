package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huncholane/dothub/internal/store"
)

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

// notInstalledError reports a missing store entry, with close matches when
// there are any.
func notInstalledError(st *store.Store, name string) error {
	msg := fmt.Sprintf("source repo not found: %s", st.Path(name))
	if s := st.Suggest(name); len(s) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(s[:min(len(s), maxSuggestions)], ", "))
	}
	return errors.New(msg)
}
