package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/pathquest/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pathquest: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "pathquest",
		Short:         "Browse peaks and manage favorites from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/pathquest/config.toml)")
	root.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/pathquest/prefs.toml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		&cobra.Command{
			Use:   "search [name]",
			Short: "List peaks matching a name, or in the default map area",
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Search(cmd.Context(), opts, strings.Join(args, " "), cmd.OutOrStdout())
			},
		},
		favoriteCmd(&opts, "favorite", "Add a peak to your favorites", true),
		favoriteCmd(&opts, "unfavorite", "Remove a peak from your favorites", false),
	)
	return root
}

func favoriteCmd(opts *app.Options, use, short string, favorite bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <peak-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.SetFavorite(cmd.Context(), *opts, args[0], favorite, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
