package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/feedsync/internal/model"
	"github.com/odysseus0/feedsync/internal/paging"
	"github.com/odysseus0/feedsync/internal/store"
)

func newLoadCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "load <refresh|append|prepend>",
		Short:     "Run a single reconciliation step against the remote feed",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.LoadRefresh), string(model.LoadAppend), string(model.LoadPrepend)},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			loadType, err := parseLoadType(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			out := app.mediator.Load(ctx, loadType, app.pagingConfig())
			if out.Kind == paging.Failed {
				return fmt.Errorf("load %s: %w", loadType, out.Err)
			}

			stats, err := app.store.Stats(ctx)
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}
			resp := LoadResponse{
				StepResponse:    newStepResponse(paging.Step{LoadType: loadType, Outcome: out}),
				EndOfPagination: out.EndOfPagination(),
				Stats:           stats,
			}

			w := cmd.OutOrStdout()
			if handled, err := writeStructured(w, getOutput(), resp); handled {
				return err
			}
			writeLoadTable(w, resp)
			return nil
		},
	}
	return cmd
}

func parseLoadType(raw string) (model.LoadType, error) {
	lt := model.LoadType(strings.ToLower(strings.TrimSpace(raw)))
	switch lt {
	case model.LoadRefresh, model.LoadAppend, model.LoadPrepend:
		return lt, nil
	default:
		return "", fmt.Errorf("%w: unknown load type %q (expected refresh|append|prepend)", store.ErrInvalidInput, raw)
	}
}
