// Command ox is a multi-call suite of POSIX file utilities: one binary,
// one subcommand per tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/config"
)

var version = "dev"

// exitError carries a specific process exit status up through cobra.
// test(1) needs to distinguish "false" (1) from "usage error" (2).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ox: config: %v\n", err)
	}

	var verbose bool

	root := &cobra.Command{
		Use:           "ox <command>",
		Short:         "POSIX file utilities in one binary",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCpCmd(cfg),
		newLsCmd(cfg),
		newCatCmd(),
		newOdCmd(),
		newFmtCmd(),
		newHeadCmd(),
		newTailCmd(),
		newWcCmd(),
		newTestCmd(),
		newTouchCmd(),
		newTruncateCmd(),
		newDuCmd(),
		newHashsumCmd(),
		newMktempCmd(),
		newDocsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(os.Stderr, "ox: %v\n", ee.err)
			}
			return ee.code
		}
		fmt.Fprintf(os.Stderr, "ox: %v\n", err)
		return 1
	}
	return 0
}
