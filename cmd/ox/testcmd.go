package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/predicate"
)

// test evaluates its arguments as a condition and reports the result
// through the exit status alone: 0 true, 1 false, 2 malformed expression.
func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [expression]",
		Short: "Evaluate a conditional expression",
		// Operators like -f and -eq would otherwise be eaten as flags.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := predicate.Eval(args)
			if err != nil {
				return &exitError{code: 2, err: fmt.Errorf("test: %w", err)}
			}
			if !ok {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	return cmd
}
