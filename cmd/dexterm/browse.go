package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/dexterm/internal/app"
)

type browseFlags struct {
	query    string
	pageSize int
}

func addBrowseFlags(cmd *cobra.Command, flags *browseFlags) {
	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "Start with this search query")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "Number of entries to load (default: catalog.page_size)")
}

func newBrowseCmd(global *globalFlags) *cobra.Command {
	flags := &browseFlags{}
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog (default command)",
		Long: `Open the interactive catalog.

Keys:
  /            search by name or number
  arrows/hjkl  move between cards
  enter        open the selected entry
  tab, 1-5     switch detail tabs
  y            copy the entry's transfer record
  esc          back / clear search
  r            retry a failed load
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, global, flags)
		},
	}
	addBrowseFlags(cmd, flags)
	return cmd
}

func runBrowse(cmd *cobra.Command, global *globalFlags, flags *browseFlags) error {
	env, err := setupEnv(cmd, global, true)
	if err != nil {
		return err
	}
	defer env.Close()

	return app.RunBrowse(cmd.Context(), env, app.BrowseOptions{
		Query:    flags.query,
		PageSize: flags.pageSize,
	})
}
