package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/dexterm/internal/app"
)

func newPickCmd(global *globalFlags) *cobra.Command {
	var (
		query    string
		pageSize int
		show     showFlags
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose an entry from a menu, then show it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupEnv(cmd, global, false)
			if err != nil {
				return err
			}
			defer env.Close()

			return app.RunPick(cmd.Context(), env, app.PickOptions{
				Query:    query,
				PageSize: pageSize,
				Show:     show.options(),
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only offer entries matching this query")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Number of entries to load (default: catalog.page_size)")
	addShowFlags(cmd, &show)
	return cmd
}
