package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/log"
	"github.com/huncholane/dothub/internal/output"
	"github.com/huncholane/dothub/internal/store"
)

func newPathCmd() *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:     "path <name>",
		Short:   "Print the store path of an installed repository",
		GroupID: GroupStore,
		Args:    cobra.ExactArgs(1),
		Example: `  cd "$(dothub path nvim-config)"
  dothub path nvim-config --copy`,
		ValidArgsFunction: completeInstalled,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			st := store.New(cfg.StoreDir)
			if !st.Exists(args[0]) {
				return notInstalledError(st, args[0])
			}

			path := st.Path(args[0])
			out.Println(path)

			if copyPath {
				if err := clipboard.WriteAll(path); err != nil {
					l.Printf("Warning: could not copy to clipboard: %v\n", err)
				} else {
					l.Println("Copied to clipboard")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Also copy the path to the clipboard")

	return cmd
}
