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

func newInstallCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "install <repo-url>",
		Short:   "Clone a repository into the store",
		GroupID: GroupStore,
		Args:    cobra.ExactArgs(1),
		Long: `Clone a repository into the store.

The directory name is the last path segment of the URL without ".git".
Installing a name that already exists does nothing.
The default store (/usr/local/share/dothub) usually needs sudo to create.`,
		Example: `  dothub install https://github.com/acme/nvim-config
  sudo dothub install git@github.com:acme/zsh.git`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			url := args[0]
			st := store.New(cfg.StoreDir)
			name := store.RepoName(url)

			if name != "" && st.Exists(name) {
				out.Printf("Repo already exists: %s\n", st.Path(name))
				return nil
			}

			l.Printf("Cloning %s -> %s\n", url, st.Path(name))

			// Verbose runs print git's own progress; the spinner only runs on a
			// quiet terminal and shows the clone phase.
			var gitProgress io.Writer
			stop := func() {}
			if flags.verbose {
				gitProgress = l.Writer()
			} else if w := diagnosticWriter(cmd, flags.quiet); w != io.Discard {
				sp := progress.NewSpinner(w, "Cloning "+name)
				sp.Start()
				gitProgress, stop = sp, sp.Stop
			}

			name, existed, err := st.Install(ctx, url, gitProgress)
			stop()
			if err != nil {
				return err
			}
			if existed {
				out.Printf("Repo already exists: %s\n", st.Path(name))
				return nil
			}

			out.Printf("Installed %s\n", name)
			return nil
		},
	}

	return cmd
}
