package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odysseus0/feedsync/internal/paging"
	"github.com/odysseus0/feedsync/internal/store"
)

func newSyncCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var pages int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh, then page backwards until the feed is exhausted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			if pages < 0 {
				return fmt.Errorf("%w: --pages must be >= 0", store.ErrInvalidInput)
			}
			ctx := cmd.Context()

			progress := cmd.ErrOrStderr()
			onStep := func(step paging.Step) {
				if quiet {
					return
				}
				fmt.Fprintf(progress, "%s: %s\n", step.LoadType, step.Outcome)
			}
			rep := app.mediator.Sync(ctx, app.pagingConfig(), pages, onStep)
			if rep.Stalled {
				fmt.Fprintln(progress, "warning: append made no progress after a fallback refresh; stopping")
			}

			stats, err := app.store.Stats(ctx)
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}
			resp := newSyncResponse(rep, stats)

			w := cmd.OutOrStdout()
			handled, werr := writeStructured(w, getOutput(), resp)
			if !handled {
				writeSyncTable(w, resp, getOutput() == OutputWide)
			}
			if rep.Err != nil {
				return fmt.Errorf("sync: %w", rep.Err)
			}
			return werr
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 0, "Stop after this many older pages (0 = until the end)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-step progress on stderr")
	return cmd
}
