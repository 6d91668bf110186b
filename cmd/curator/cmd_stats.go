package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsFromCache bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the population's stratum and author breakdown",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsFromCache, "from-cache", false, "use the cached snapshot instead of fetching")
}

func runStats(cmd *cobra.Command, args []string) error {
	population, err := loadPopulation(cmd.Context(), statsFromCache)
	if err != nil {
		return err
	}

	perSystem, distinctAuthors := populationBreakdown(population)

	labels := make([]string, 0, len(perSystem))
	for label := range perSystem {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if perSystem[labels[i]] != perSystem[labels[j]] {
			return perSystem[labels[i]] > perSystem[labels[j]]
		}
		return labels[i] < labels[j]
	})

	cmd.Printf("Population: %d entries\n", len(population))
	cmd.Printf("Distinct authors: %d\n\n", distinctAuthors)
	cmd.Println("Per-system distribution:")
	for _, label := range labels {
		share := float64(perSystem[label]) / float64(len(population)) * 100
		cmd.Println(fmt.Sprintf("  %-30s %6d  (%.1f%%)", label, perSystem[label], share))
	}
	return nil
}
