package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/link"
	"github.com/huncholane/dothub/internal/output"
	"github.com/huncholane/dothub/internal/store"
	"github.com/huncholane/dothub/internal/ui/prompt"
)

func newLinkCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "link <name> <target>",
		Short:   "Activate an installed repository",
		GroupID: GroupLink,
		Args:    cobra.ExactArgs(2),
		Long: `Symlink an installed repository into the link directory (~/.config).

An existing symlink at the target is replaced. An existing file or
directory is only replaced with --force, or after confirming when run
interactively.`,
		Example: `  dothub link nvim-config nvim      # ~/.config/nvim -> <store>/nvim-config
  dothub link zsh-dots zsh --force  # replace a real ~/.config/zsh`,
		ValidArgsFunction: completeInstalled,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			name, targetName := args[0], args[1]
			if !filepath.IsLocal(targetName) {
				return fmt.Errorf("invalid target %q: must be a relative path inside %s", targetName, cfg.LinkDir)
			}

			st := store.New(cfg.StoreDir)
			if !st.Exists(name) {
				return notInstalledError(st, name)
			}

			source := st.Path(name)
			target := filepath.Join(cfg.LinkDir, targetName)
			err := link.Create(source, target, force)
			if errors.Is(err, link.ErrTargetExists) && !flags.quiet && isatty.IsTerminal(os.Stdin.Fd()) {
				res, perr := prompt.Confirm(cmd.ErrOrStderr(), fmt.Sprintf("%s exists. Replace it?", target))
				if perr != nil {
					return perr
				}
				if !res.Confirmed {
					return err
				}
				err = link.Create(source, target, true)
			}
			if err != nil {
				return err
			}

			out.Printf("Linked %s -> %s\n", source, target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file or directory at the target")

	return cmd
}
