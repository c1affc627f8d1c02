package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/store"
)

// completeInstalled completes the first argument with installed repository names.
func completeInstalled(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	names, err := store.New(config.FromContext(ctx).StoreDir).List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, name := range names {
		if strings.HasPrefix(name, toComplete) {
			matches = append(matches, name)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
