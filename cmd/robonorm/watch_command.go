package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"robonorm/internal/catalog"
	"robonorm/internal/config"
	"robonorm/internal/dataset"
	"robonorm/internal/watch"
)

func newWatchCommand(cmdCtx *commandContext) *cobra.Command {
	var debounceSeconds int
	var noSave bool

	cmd := &cobra.Command{
		Use:   "watch <dataset-root>",
		Short: "Rescan the dataset whenever its contents change",
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

			opts, err := scannerOptions(cfg)
			if err != nil {
				return err
			}
			scanner := dataset.NewScanner(opts, logger)

			lock, err := catalog.AcquireScanLock(cfg.Paths.CatalogDir)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			var store *catalog.Store
			if !noSave {
				store, err = catalog.Open(cfg.Paths.CatalogDir)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
			}

			debounce := time.Duration(debounceSeconds) * time.Second
			if debounceSeconds <= 0 {
				debounce = time.Duration(cfg.Watch.DebounceSeconds) * time.Second
			}

			rescan := func(ctx context.Context) error {
				result, err := scanner.Scan(ctx, datasetRoot)
				if err != nil {
					return err
				}
				if store != nil {
					if err := store.SaveScan(ctx, result); err != nil {
						return fmt.Errorf("save scan: %w", err)
					}
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = watch.New(watch.Options{Debounce: debounce}, rescan, logger).Run(ctx, datasetRoot)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVar(&debounceSeconds, "debounce", 0, "Quiet seconds before a rescan (0 uses the config value)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip recording scans in the catalog")
	return cmd
}
