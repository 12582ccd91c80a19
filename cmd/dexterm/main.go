package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tturner/dexterm/internal/app"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// globalFlags are the persistent flags every command reads.
type globalFlags struct {
	config   string
	logLevel string
	logFile  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	global := &globalFlags{}
	browse := &browseFlags{}

	rootCmd := &cobra.Command{
		Use:   "dexterm",
		Short: "Browse the Pokémon catalog from the terminal",
		Long: `Dexterm loads the first page of the Pokémon catalog, lets you search it by
name or national number, and shows each entry's forms, details, types and stats.

Run without a command to open the interactive browser.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, global, browse)
		},
	}

	rootCmd.PersistentFlags().StringVar(&global.config, "config", "", "Config file (default: $DEXTERM_CONFIG or ./dexterm.yaml)")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "", "Log level: silent|error|info|verbose|debug")
	rootCmd.PersistentFlags().StringVar(&global.logFile, "log-file", "", "Write logs to this file")
	addBrowseFlags(rootCmd, browse)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newBrowseCmd(global))
	rootCmd.AddCommand(newListCmd(global))
	rootCmd.AddCommand(newShowCmd(global))
	rootCmd.AddCommand(newPickCmd(global))
	rootCmd.AddCommand(newConfigCmd(global))

	// Short top-level usage; subcommands keep cobra's full help.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.HasParent() {
			defaultHelp(cmd, args)
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Usage:\n  %s [command] [options]\n\n", cmd.Name())
		fmt.Fprintf(out, "Available Commands:\n")
		for _, subCmd := range cmd.Commands() {
			if !subCmd.Hidden && subCmd.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-15s %s\n", subCmd.Name(), subCmd.Short)
			}
		}
		fmt.Fprintf(out, "\nGlobal Options:\n%s", cmd.PersistentFlags().FlagUsages())
		fmt.Fprintf(out, "\nUse \"%s help <command>\" for more information about a command.\n", cmd.Name())
	})

	return rootCmd
}

// setupEnv builds the shared environment from the global flags. quiet keeps
// log output off the terminal.
func setupEnv(cmd *cobra.Command, global *globalFlags, quiet bool) (*app.Env, error) {
	return app.Setup(app.Options{
		ConfigPath: global.config,
		LogLevel:   global.logLevel,
		LogFile:    global.logFile,
		Quiet:      quiet,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
}
