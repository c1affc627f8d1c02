package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/log"
	"github.com/huncholane/dothub/internal/output"
	"github.com/huncholane/dothub/internal/store"
	"github.com/huncholane/dothub/internal/ui/progress"
)

func newUpdateCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Fast-forward every installed repository",
		GroupID: GroupStore,
		Args:    cobra.NoArgs,
		Long: `Pull every git repository in the store from its origin.

Only fast-forwards are applied; a repository with local commits fails and
is reported without stopping the others. Directories that are not git
repositories are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			st := store.New(cfg.StoreDir)
			if err := st.Ensure(); err != nil {
				return err
			}

			var (
				opts store.UpdateOptions
				bar  *progress.ProgressBar
			)
			if w := diagnosticWriter(cmd, flags.quiet); !flags.verbose && w != io.Discard {
				opts.OnRepo = func(done, total int, name string) {
					if bar == nil {
						bar = progress.NewProgressBar(w, total, name)
						bar.Start()
					}
					bar.SetProgress(done, name)
				}
			} else {
				if flags.verbose {
					opts.Progress = l.Writer()
				}
				opts.OnRepo = func(_, _ int, name string) {
					l.Printf("Updating %s\n", st.Path(name))
				}
			}

			res, err := st.Update(ctx, opts)
			if bar != nil {
				bar.Stop()
			}
			if err != nil {
				return err
			}

			for _, f := range res.Failed {
				l.Printf("git pull failed in %s: %v\n", st.Path(f.Name), f.Err)
			}
			out.Printf("Updated %d repositories (skipped %d).\n", len(res.Updated), len(res.Skipped))
			return nil
		},
	}

	return cmd
}
