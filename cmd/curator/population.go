package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/EBB2675/nomad-curator/internal/catalog"
	"github.com/EBB2675/nomad-curator/internal/nomad"
	"github.com/EBB2675/nomad-curator/internal/store"
)

// newSourceClient builds a NOMAD client from the loaded configuration.
func newSourceClient() *nomad.Client {
	c := nomad.NewClient(logger.Named("nomad"))
	c.BaseURL = cfg.Source.BaseURL
	c.Owner = cfg.Source.Owner
	c.Program = cfg.Source.Program
	c.PageSize = cfg.Source.PageSize
	return c
}

// loadPopulation returns the population to sample, either from the local
// snapshot cache or from a fresh catalog fetch.
func loadPopulation(ctx context.Context, fromCache bool) ([]catalog.Entry, error) {
	if fromCache {
		snap, err := store.Open(cfg.Output.CachePath)
		if err != nil {
			return nil, err
		}
		defer snap.Close()

		entries, err := snap.Load()
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("snapshot cache %s is empty; run 'curator fetch' first", cfg.Output.CachePath)
		}
		logger.Info("loaded cached population",
			zap.String("cache", cfg.Output.CachePath),
			zap.Int("entries", len(entries)))
		return entries, nil
	}

	entries, report, err := newSourceClient().FetchPopulation(ctx)
	if err != nil {
		return nil, err
	}
	if report.Skipped > 0 {
		logger.Warn("skipped records without entry_id", zap.Int("skipped", report.Skipped))
	}
	logger.Info("population fetched",
		zap.Int("entries", len(entries)),
		zap.Int("pages", report.Pages))
	return entries, nil
}

// populationBreakdown tallies the per-system distribution and the distinct
// author count of a population.
func populationBreakdown(population []catalog.Entry) (map[string]int, int) {
	perSystem := make(map[string]int)
	authors := make(map[string]bool)
	for _, e := range population {
		perSystem[e.System]++
		if e.HasAuthor() {
			authors[e.MainAuthor] = true
		}
	}
	return perSystem, len(authors)
}
