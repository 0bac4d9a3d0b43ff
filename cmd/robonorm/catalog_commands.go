package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"robonorm/internal/catalog"
)

func newCatalogCommand(cmdCtx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect recorded scan runs",
	}

	catalogCmd.AddCommand(newCatalogListCommand(cmdCtx))
	catalogCmd.AddCommand(newCatalogShowCommand(cmdCtx))
	catalogCmd.AddCommand(newCatalogPruneCommand(cmdCtx))

	return catalogCmd
}

func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Paths.CatalogDir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func newCatalogListCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded scan runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(store *catalog.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scan runs recorded.")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.RunID,
						run.DatasetRoot,
						run.StartedAt.Local().Format(time.DateTime),
						strconv.Itoa(run.TaskCount),
						strconv.Itoa(run.EpisodeCount),
						strconv.Itoa(run.FailureCount),
					})
				}
				columns := []column{
					{title: "Run"},
					{title: "Dataset"},
					{title: "Started"},
					{title: "Tasks", count: true},
					{title: "Episodes", count: true},
					{title: "Failures", count: true},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run list as JSON")
	return cmd
}

func newCatalogShowCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one scan run and its task outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(store *catalog.Store) error {
				run, tasks, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, struct {
						Run   *catalog.RunRecord   `json:"run"`
						Tasks []catalog.TaskRecord `json:"tasks"`
					}{run, tasks})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s\n", run.RunID)
				fmt.Fprintf(out, "  Dataset:  %s\n", run.DatasetRoot)
				fmt.Fprintf(out, "  Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "  Duration: %s\n", run.Duration().Round(timeRounding))
				fmt.Fprintf(out, "  Tasks:    %d (%d failure(s)), %d episode(s)\n",
					run.TaskCount, run.FailureCount, run.EpisodeCount)

				rows := make([][]string, 0, len(tasks))
				for _, task := range tasks {
					status := task.Status
					if task.Failed() {
						status = "failed"
					}
					rows = append(rows, []string{
						task.Name,
						task.Instruction,
						status,
						yesNo(task.Fallback),
						strconv.Itoa(task.CameraCount),
						strconv.Itoa(task.EpisodeCount),
						strconv.Itoa(task.WarningCount),
					})
				}
				columns := []column{
					{title: "Task"},
					{title: "Instruction"},
					{title: "Status"},
					{title: "Fallback"},
					{title: "Cameras", count: true},
					{title: "Episodes", count: true},
					{title: "Warnings", count: true},
				}
				fmt.Fprintln(out, renderTable(columns, rows))

				for _, task := range tasks {
					if task.Failed() {
						fmt.Fprintf(out, "  %s: error: %s\n", task.Name, task.Error)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run as JSON")
	return cmd
}

func newCatalogPruneCommand(cmdCtx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest scan runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(store *catalog.Store) error {
				removed, err := store.PruneRuns(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s), kept the newest %d.\n", removed, keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "Number of newest runs to keep")
	return cmd
}
