package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/huncholane/dothub/internal/config"
	"github.com/huncholane/dothub/internal/hub"
	"github.com/huncholane/dothub/internal/log"
	"github.com/huncholane/dothub/internal/output"
	"github.com/huncholane/dothub/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupStore  = "store"
	GroupLink   = "link"
	GroupConfig = "config"
)

const fetchFailedMessage = "Failed to fetch the hub file. Please ensure you have internet connection."

// globalFlags are shared by every command.
type globalFlags struct {
	verbose bool
	quiet   bool
}

// newRootCmd builds the command tree. Running it without a subcommand shows
// the catalog.
func newRootCmd() *cobra.Command {
	var (
		flags  globalFlags
		hubURL string
	)

	cmd := &cobra.Command{
		Use:   "dothub [TYPE...]",
		Short: "Discover and install popular dotfile repositories",
		Long: `dothub lists the dotfile repositories of a shared registry ranked by
GitHub stars, and installs and links the ones you pick.

TYPE filters the catalog by configuration type (nvim, zsh, ...). Several
types can be given as separate arguments or comma-separated.

Set GITHUB_TOKEN to fetch star counts in a few batched requests instead of
one request per repository.`,
		Example: `  dothub                 # Show the whole catalog
  dothub nvim            # Only Neovim configurations
  dothub nvim,tmux zsh   # Several types
  dothub --url https://example.com/hub.yml  # Use another registry`,
		Args:                       cobra.ArbitraryArgs,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose && flags.quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			// Diagnostics go to stderr, stdout is reserved for data
			l := log.New(cmd.ErrOrStderr(), flags.verbose, flags.quiet)
			cmd.SetContext(log.WithLogger(ctx, l))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd.Context(), catalogOptions{
				types:     args,
				hubURL:    hubURL,
				indicator: indicatorWriter(cmd, flags),
			})
		},
		ValidArgsFunction: cobra.NoFileCompletions,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show requests and git operations as they run")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.Flags().StringVar(&hubURL, "url", "", "Registry URL (defaults to hub_url from config)")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupStore, Title: "Store Commands:"},
		&cobra.Group{ID: GroupLink, Title: "Link Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Store commands
	cmd.AddCommand(newInstallCmd(&flags))
	cmd.AddCommand(newUpdateCmd(&flags))
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPathCmd())

	// Link commands
	cmd.AddCommand(newLinkCmd(&flags))
	cmd.AddCommand(newActiveCmd())

	// Config commands
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// diagnosticWriter returns where animated progress may be drawn: stderr when
// it is a terminal and output is not suppressed, io.Discard otherwise.
func diagnosticWriter(cmd *cobra.Command, quiet bool) io.Writer {
	if quiet || !isatty.IsTerminal(os.Stderr.Fd()) {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}

// indicatorWriter is diagnosticWriter, except that verbose runs draw
// nothing: the status line would interleave with request traces.
func indicatorWriter(cmd *cobra.Command, flags globalFlags) io.Writer {
	if flags.verbose {
		return io.Discard
	}
	return diagnosticWriter(cmd, flags.quiet)
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	stdout := output.ProfileWriter(os.Stdout, os.Environ())
	stderr := output.ProfileWriter(os.Stderr, os.Environ())

	// An unusable config file is reported but never fatal
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, styles.WarningStyle.Render("Warning: "+err.Error()))
	}
	styles.Init(cfg.Theme)

	ctx = config.WithConfig(ctx, &cfg)
	ctx = output.WithPrinter(ctx, stdout)

	err = execute(ctx, os.Args[1:], stderr)
	cancel()
	if err != nil {
		fmt.Fprintln(stderr, styles.ErrorStyle.Render(errorMessage(err)))
		if !errors.Is(err, hub.ErrFetch) {
			fmt.Fprintln(stderr)
			fmt.Fprintln(stderr, "Run 'dothub -h' for help")
		}
		os.Exit(1)
	}
}

// execute runs the command tree with args against a prepared context.
func execute(ctx context.Context, args []string, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetErr(stderr)
	if p := output.FromContext(ctx); p != nil {
		root.SetOut(p.Writer())
	}
	return root.ExecuteContext(ctx)
}

// errorMessage renders err for the user.
func errorMessage(err error) string {
	if errors.Is(err, hub.ErrFetch) {
		return fetchFailedMessage
	}
	return "Error: " + err.Error()
}
