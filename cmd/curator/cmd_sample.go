package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EBB2675/nomad-curator/internal/manifest"
	"github.com/EBB2675/nomad-curator/internal/sampling"
)

var (
	sampleSizes     []int
	sampleSeed      int64
	sampleOutDir    string
	samplePrefix    string
	sampleFromCache bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw stratified, author-diverse samples and write JSON/CSV manifests",
	Long: `Draws one reproducible sample per requested target size and writes a
JSON/CSV manifest pair for each, named <prefix>_<size>.json and
<prefix>_<size>.csv.

The population is fetched once (or loaded from the snapshot cache with
--from-cache) and reused for every target size. A target larger than the
population is clamped with a warning; a non-positive target skips that
size without aborting the others.`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().IntSliceVar(&sampleSizes, "sizes", nil, "target sample sizes (default from config)")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (default from config)")
	sampleCmd.Flags().StringVar(&sampleOutDir, "out-dir", "", "output directory for manifests (default from config)")
	sampleCmd.Flags().StringVar(&samplePrefix, "prefix", "", "manifest file name prefix (default from config)")
	sampleCmd.Flags().BoolVar(&sampleFromCache, "from-cache", false, "sample the cached snapshot instead of fetching")
}

func runSample(cmd *cobra.Command, args []string) error {
	sizes := cfg.Sampling.Targets
	if cmd.Flags().Changed("sizes") {
		sizes = sampleSizes
	}
	if len(sizes) == 0 {
		return fmt.Errorf("no target sizes given")
	}

	seed := cfg.Sampling.Seed
	if cmd.Flags().Changed("seed") {
		seed = sampleSeed
	}
	outDir := cfg.Output.Dir
	if cmd.Flags().Changed("out-dir") {
		outDir = sampleOutDir
	}
	prefix := cfg.Sampling.FilePrefix
	if cmd.Flags().Changed("prefix") {
		prefix = samplePrefix
	}

	population, err := loadPopulation(cmd.Context(), sampleFromCache)
	if err != nil {
		return err
	}
	if len(population) == 0 {
		return sampling.ErrEmptyPopulation
	}

	perSystem, distinctAuthors := populationBreakdown(population)
	logger.Info("population breakdown",
		zap.Int("entries", len(population)),
		zap.Any("per_system", perSystem),
		zap.Int("distinct_authors", distinctAuthors))

	engine := sampling.New(seed)

	for _, size := range sizes {
		log := logger.With(
			zap.String("run_id", uuid.NewString()),
			zap.Int("target", size))

		res, err := engine.Run(population, size)
		if errors.Is(err, sampling.ErrInvalidTarget) {
			// One bad size must not abort the remaining sizes.
			log.Error("invalid target size, skipping", zap.Error(err))
			continue
		}
		if err != nil {
			return fmt.Errorf("sampling %d of %d entries: %w", size, len(population), err)
		}
		if res.Clamped {
			log.Warn("target exceeds population, clamped",
				zap.Int("population", len(population)),
				zap.Int("effective", len(res.Sample)))
		}

		jsonPath, csvPath, err := manifest.Write(outDir, prefix, len(res.Sample), res.Sample)
		if err != nil {
			return err
		}

		log.Info("sample written",
			zap.Int("entries", len(res.Sample)),
			zap.Int("distinct_authors", res.DistinctAuthors),
			zap.Any("per_stratum", res.PerStratum),
			zap.String("json", jsonPath),
			zap.String("csv", csvPath))
	}

	return nil
}
