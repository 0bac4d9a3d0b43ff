package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"robonorm/internal/config"
	"robonorm/internal/preflight"
)

func newCheckCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check [dataset-root]",
		Short: "Run environment preflight checks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			var datasetRoot string
			if len(args) == 1 {
				if datasetRoot, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve dataset root: %w", err)
				}
			}

			results := preflight.RunAll(cfg, datasetRoot)
			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printCheckResults(cmd, results)
			}
			if !preflight.Passed(results) {
				return fmt.Errorf("%d check(s) failed", countFailed(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit check results as JSON")
	return cmd
}

func printCheckResults(cmd *cobra.Command, results []preflight.Result) {
	out := cmd.OutOrStdout()
	colorize := false
	if file, ok := out.(*os.File); ok {
		fd := file.Fd()
		colorize = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	for _, result := range results {
		mark := "ok"
		if !result.Passed {
			mark = "FAIL"
		}
		if colorize {
			if result.Passed {
				mark = "\x1b[32mok\x1b[0m"
			} else {
				mark = "\x1b[31mFAIL\x1b[0m"
			}
		}
		fmt.Fprintf(out, "%-6s %-20s %s\n", mark, result.Name, result.Detail)
	}
}

func countFailed(results []preflight.Result) int {
	n := 0
	for _, result := range results {
		if !result.Passed {
			n++
		}
	}
	return n
}
