package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/link"
	"github.com/huncholane/dothub/internal/output"
)

func newActiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "active",
		Short:   "Show which repositories are linked",
		GroupID: GroupLink,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			links, err := link.Active(cfg.LinkDir, cfg.StoreDir)
			if errors.Is(err, link.ErrNoLinkDir) {
				out.Printf("No %s directory found.\n", cfg.LinkDir)
				return nil
			}
			if err != nil {
				return err
			}

			if len(links) == 0 {
				out.Printf("No active dothub links in %s.\n", cfg.LinkDir)
				return nil
			}
			for _, l := range links {
				out.Printf("%s -> %s\n", l.Name, l.Target)
			}
			return nil
		},
	}

	return cmd
}
