package main

import (
	"github.com/spf13/cobra"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/output"
	"github.com/huncholane/dothub/internal/store"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List installed repositories",
		Aliases: []string{"ls"},
		GroupID: GroupStore,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			names, err := store.New(cfg.StoreDir).List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				out.Printf("No repositories installed in %s.\n", cfg.StoreDir)
				return nil
			}
			for _, name := range names {
				out.Println(name)
			}
			return nil
		},
	}

	return cmd
}
