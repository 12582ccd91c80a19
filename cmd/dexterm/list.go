package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/dexterm/internal/app"
)

type listFlags struct {
	query      string
	pageSize   int
	json       bool
	yaml       bool
	metricsCSV string
	noProgress bool
}

func newListCmd(global *globalFlags) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog as a table, JSON or YAML",
		Long: `Load the catalog and print every entry that matches --query.

An entry matches when its name contains the query (ignoring case) or its
three-digit number contains the query as typed. With join_policy: partial,
entries that failed to load are skipped and reported on stderr.`,
		Example: `  # Everything in the first page
  dexterm list

  # Names containing "char" as JSON
  dexterm list --query char --json

  # Save per-request timings
  dexterm list --metrics-csv requests.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "Filter by name or number")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "Number of entries to load (default: catalog.page_size)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&flags.yaml, "yaml", false, "Print YAML")
	cmd.Flags().StringVar(&flags.metricsCSV, "metrics-csv", "", "Write per-request metrics to this CSV file")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Hide the progress bar")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

func runList(cmd *cobra.Command, global *globalFlags, flags *listFlags) error {
	env, err := setupEnv(cmd, global, false)
	if err != nil {
		return err
	}
	defer env.Close()

	format := app.FormatTable
	switch {
	case flags.json:
		format = app.FormatJSON
	case flags.yaml:
		format = app.FormatYAML
	}

	return app.RunList(cmd.Context(), env, app.ListOptions{
		Query:      flags.query,
		PageSize:   flags.pageSize,
		Format:     format,
		MetricsCSV: flags.metricsCSV,
		NoProgress: flags.noProgress,
	})
}
