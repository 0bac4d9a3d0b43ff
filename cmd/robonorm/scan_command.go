package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"robonorm/internal/catalog"
	"robonorm/internal/config"
	"robonorm/internal/dataset"
	"robonorm/internal/preflight"
)

func newScanCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOut bool
	var noSave bool
	var skipChecks bool
	var tasks []string

	cmd := &cobra.Command{
		Use:   "scan <dataset-root>",
		Short: "Normalize every task under a dataset root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}
			datasetRoot, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve dataset root: %w", err)
			}

			if !skipChecks {
				results := preflight.RunAll(cfg, datasetRoot)
				if !preflight.Passed(results) {
					return preflightError(results)
				}
			}

			opts, err := scannerOptions(cfg)
			if err != nil {
				return err
			}
			if len(tasks) > 0 {
				opts.Tasks = tasks
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			lock, err := catalog.AcquireScanLock(cfg.Paths.CatalogDir)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			result, err := dataset.NewScanner(opts, logger).Scan(ctx, datasetRoot)
			if err != nil {
				return err
			}

			if !noSave {
				store, err := catalog.Open(cfg.Paths.CatalogDir)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				if err := store.SaveScan(ctx, result); err != nil {
					return fmt.Errorf("save scan: %w", err)
				}
			}

			if jsonOut {
				return writeJSON(cmd, newScanView(result))
			}
			printScanResult(cmd, result)
			if failures := result.Failures(); failures > 0 && failures == len(result.Tasks) {
				return fmt.Errorf("all %d task(s) failed", failures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the scan result as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip recording the scan in the catalog")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip environment preflight checks")
	cmd.Flags().StringSliceVar(&tasks, "tasks", nil, "Restrict the scan to these task directories (names under the root or absolute paths)")
	return cmd
}

func printScanResult(cmd *cobra.Command, result *dataset.ScanResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(scanColumns, scanTableRows(result)))
	fmt.Fprintf(out, "Run %s: %d task(s), %d episode(s), %d failure(s) in %s\n",
		result.RunID, len(result.Tasks), result.Episodes(), result.Failures(),
		result.FinishedAt.Sub(result.StartedAt).Round(timeRounding))

	for _, task := range result.Tasks {
		if task.Err != nil {
			fmt.Fprintf(out, "  %s: error: %v\n", task.Name, task.Err)
		}
		if task.Result == nil {
			continue
		}
		for _, warning := range task.Result.Report.Warnings {
			fmt.Fprintf(out, "  %s: warning: %s\n", task.Name, warning)
		}
	}
}

func preflightError(results []preflight.Result) error {
	var failed []string
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return fmt.Errorf("preflight failed:\n  %s", strings.Join(failed, "\n  "))
}
