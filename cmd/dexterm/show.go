package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tturner/dexterm/internal/app"
)

type showFlags struct {
	tab      string
	markdown bool
	style    string
	sprite   bool
	from     string
}

func addShowFlags(cmd *cobra.Command, flags *showFlags) {
	cmd.Flags().StringVar(&flags.tab, "tab", "all", "Tab to print: forms|detail|types|stats|weak|all")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "Render as formatted markdown")
	cmd.Flags().StringVar(&flags.style, "style", "", "Markdown style: dark|light|notty (default: detect)")
	cmd.Flags().BoolVar(&flags.sprite, "sprite", false, "Print the artwork above the details")
}

func (f *showFlags) options() app.ShowOptions {
	return app.ShowOptions{
		From:     f.from,
		Tab:      f.tab,
		Markdown: f.markdown,
		Style:    f.style,
		Sprite:   f.sprite,
	}
}

func newShowCmd(global *globalFlags) *cobra.Command {
	flags := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Print one entry's details",
		Long: `Fetch one entry by national number or name and print its tabs.

--from accepts the transfer record copied from the interactive browser
(key y), e.g. {"id":1,"name":"bulbasaur","image":"...","types":[...]}.`,
		Example: `  dexterm show 25
  dexterm show pikachu --tab stats
  dexterm show 1 --markdown --sprite`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && flags.from == "" {
				_ = cmd.Help()
				return fmt.Errorf("an id or name is required (or --from)")
			}
			env, err := setupEnv(cmd, global, false)
			if err != nil {
				return err
			}
			defer env.Close()

			opts := flags.options()
			if len(args) == 1 {
				opts.Key = args[0]
			}
			return app.RunShow(cmd.Context(), env, opts)
		},
	}

	addShowFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.from, "from", "", "Transfer record JSON to show instead of an id")
	return cmd
}
