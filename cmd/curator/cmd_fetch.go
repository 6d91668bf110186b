package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EBB2675/nomad-curator/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the entry population and cache it locally",
	Long: `Fetches the full matching population from the configured NOMAD
deployment and stores it in the local snapshot cache, replacing any
previous snapshot. Later 'curator sample --from-cache' and
'curator stats' runs reuse the snapshot instead of re-fetching.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	entries, report, err := newSourceClient().FetchPopulation(cmd.Context())
	if err != nil {
		return err
	}
	if report.Skipped > 0 {
		logger.Warn("skipped records without entry_id", zap.Int("skipped", report.Skipped))
	}

	snap, err := store.Open(cfg.Output.CachePath)
	if err != nil {
		return err
	}
	defer snap.Close()

	if err := snap.Save(entries, report.Skipped); err != nil {
		return err
	}

	logger.Info("snapshot saved",
		zap.String("cache", cfg.Output.CachePath),
		zap.Int("entries", len(entries)),
		zap.Int("pages", report.Pages),
		zap.Int("skipped", report.Skipped))
	return nil
}
