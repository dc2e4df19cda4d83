package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/paging"
	"github.com/five82/vapor/internal/vapor"
)

func newGamesCmd(flags *globalFlags) *cobra.Command {
	var (
		search string
		pages  int
		list   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Print catalog games, or the games of one list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			src := rt.Client.GamePages()
			if list > 0 {
				src = rt.Client.ListGamePages(list, vapor.ListSort{})
			}
			games, state, err := collectPages(cmd, src, search, pages, rt.Logger.Named("paging"))
			if err != nil {
				return err
			}

			if asJSON {
				out, err := sonic.ConfigStd.MarshalIndent(games, "", "  ")
				if err != nil {
					return fmt.Errorf("encode games: %w", err)
				}
				_, err = os.Stdout.Write(append(out, '\n'))
				return err
			}

			faint := color.New(color.Faint)
			for _, g := range games {
				printf("%s %s\n", faint.Sprintf("%7d", g.AppID), g.Name)
			}
			more := ""
			if state.CanLoadMore() {
				more = ", more available"
			}
			faint.Fprintf(os.Stdout, "%s games%s\n", humanize.Comma(int64(len(games))), more)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only games whose name matches")
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to fetch")
	cmd.Flags().IntVar(&list, "list", 0, "print the games of this list id instead of the catalog")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// collectPages drives a paging controller the way the catalog screen does:
// one initial fetch, then appends while a cursor remains. Searches return a
// single page.
func collectPages(cmd *cobra.Command, src paging.Source[vapor.Game], search string, pages int, logger *zap.Logger) ([]vapor.Game, paging.State[vapor.Game], error) {
	ctx := cmd.Context()
	ctrl := paging.New(src, paging.Options{Context: ctx, Logger: logger})
	defer ctrl.Close()

	var override *string
	if search != "" {
		override = &search
	}
	ctrl.RequestPage(ctx, paging.ModeInitial, override)
	for i := 1; i < pages; i++ {
		if !ctrl.Snapshot().CanLoadMore() {
			break
		}
		ctrl.OnScrollNearEnd(ctx)
	}

	state := ctrl.Snapshot()
	if state.LastError != nil {
		return state.Items, state, fmt.Errorf("fetch games: %s", vapor.Message(state.LastError))
	}
	return state.Items, state, nil
}
