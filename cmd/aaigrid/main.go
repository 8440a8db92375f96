package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all subcommands.
type cli struct {
	log *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

func (c *cli) step(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	color.New(color.FgCyan).Fprintf(c.out, "▶️  "+format+"\n", a...)
}

func (c *cli) done(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	color.New(color.FgGreen).Fprintf(c.out, "✔️  "+format+"\n", a...)
}

func (c *cli) info(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	color.New(color.FgWhite).Fprintf(c.out, "ℹ️  "+format+"\n", a...)
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	var verbose bool

	root := &cobra.Command{
		Use:           "aaigrid",
		Short:         "Inspect and convert AAIGrid (ESRI ASCII grid) rasters.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			c.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			c.out = cmd.OutOrStdout()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug diagnostics")

	root.AddCommand(
		newInfoCommand(c),
		newConvertCommand(c),
	)

	return root
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "\nERROR: %s\n\n", err)
		os.Exit(1)
	}
}
